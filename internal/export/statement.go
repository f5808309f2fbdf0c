// Package export renders account statements as XML documents.
package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/Denish004/banking-system/internal/models"
)

// Statement builds an XML statement for one account: owner, current
// balance and the full transaction history in chronological order.
func Statement(account *models.Account, owner *models.User, txns []models.Transaction) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Statement")
	root.CreateAttr("generatedAt", time.Now().UTC().Format(time.RFC3339))

	acct := root.CreateElement("Account")
	acct.CreateElement("Number").SetText(account.AccountNumber)
	acct.CreateElement("Balance").SetText(account.Balance.StringFixed(2))
	acct.CreateElement("OpenedAt").SetText(account.CreatedAt.UTC().Format(time.RFC3339))
	if owner != nil {
		holder := acct.CreateElement("Holder")
		holder.CreateElement("Username").SetText(owner.Username)
		holder.CreateElement("FullName").SetText(owner.FullName)
	}

	list := root.CreateElement("Transactions")
	list.CreateAttr("count", fmt.Sprintf("%d", len(txns)))
	for _, t := range txns {
		e := list.CreateElement("Transaction")
		e.CreateAttr("id", fmt.Sprintf("%d", t.ID))
		e.CreateElement("Type").SetText(string(t.Type))
		e.CreateElement("Amount").SetText(t.Amount.StringFixed(2))
		e.CreateElement("BalanceBefore").SetText(t.BalanceBefore.StringFixed(2))
		e.CreateElement("BalanceAfter").SetText(t.BalanceAfter.StringFixed(2))
		e.CreateElement("Date").SetText(t.CreatedAt.UTC().Format(time.RFC3339))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize statement: %w", err)
	}
	return out, nil
}
