package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Denish004/banking-system/internal/export"
	"github.com/Denish004/banking-system/internal/middleware"
	"github.com/Denish004/banking-system/internal/models"
	"github.com/Denish004/banking-system/internal/service"
)

// BankService is the slice of the service layer the HTTP surface needs.
type BankService interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*models.User, string, error)
	Deposit(ctx context.Context, user *models.User, accountID int64, amount decimal.Decimal) (*service.TransactionResult, error)
	Withdraw(ctx context.Context, user *models.User, accountID int64, amount decimal.Decimal) (*service.TransactionResult, error)
	Accounts(ctx context.Context, user *models.User) ([]models.Account, error)
	AccountTransactions(ctx context.Context, user *models.User, accountID int64) ([]models.Transaction, error)
	UserTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error)
	AllCustomers(ctx context.Context, user *models.User) ([]models.User, error)
	AllAccounts(ctx context.Context, user *models.User) ([]models.AccountSummary, error)
	UserDetails(ctx context.Context, user *models.User, targetUserID int64) (*models.UserDetails, error)
	AccountStatement(ctx context.Context, user *models.User, accountID int64) (*service.Statement, error)
}

type Handler struct {
	svc      BankService
	log      *logrus.Logger
	validate *validator.Validate
}

func NewHandler(svc BankService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, validate: validator.New()}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type transactionRequest struct {
	AccountID int64           `json:"account_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount"`
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         user,
		"access_token": token,
	})
}

// Profile returns the authenticated user's own record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Deposit handles deposits into an account.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.ledgerOp(w, r, h.svc.Deposit)
}

// Withdraw handles withdrawals from an account. Insufficient funds is a
// business outcome: success false with HTTP 400, not an error payload.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.ledgerOp(w, r, h.svc.Withdraw)
}

func (h *Handler) ledgerOp(w http.ResponseWriter, r *http.Request, op func(context.Context, *models.User, int64, decimal.Decimal) (*service.TransactionResult, error)) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid account ID and amount are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid account ID and amount are required")
		return
	}

	result, err := op(r.Context(), user, req.AccountID, req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, result)
}

// Accounts lists the caller's own accounts.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	accounts, err := h.svc.Accounts(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "accounts": accounts})
}

// AccountTransactions lists one account's history, most recent first.
func (h *Handler) AccountTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	accountID, err := pathID(r, "accountId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid account ID is required")
		return
	}
	txns, err := h.svc.AccountTransactions(r.Context(), user, accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "transactions": txns})
}

// UserTransactions lists the caller's history across all accounts.
func (h *Handler) UserTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	txns, err := h.svc.UserTransactions(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "transactions": txns})
}

// AllUsers lists every customer. Banker only.
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	users, err := h.svc.AllCustomers(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

// AllAccounts lists every account with owner info. Banker only.
func (h *Handler) AllAccounts(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	accounts, err := h.svc.AllAccounts(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "accounts": accounts})
}

// UserDetails returns one customer with accounts and history. Banker only.
func (h *Handler) UserDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	targetID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid user ID is required")
		return
	}
	details, err := h.svc.UserDetails(r.Context(), user, targetID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         details.User,
		"accounts":     details.Accounts,
		"transactions": details.Transactions,
	})
}

// AccountStatement renders an account's history as an XML document.
func (h *Handler) AccountStatement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	accountID, err := pathID(r, "accountId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid account ID is required")
		return
	}
	statement, err := h.svc.AccountStatement(r.Context(), user, accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	doc, err := export.Statement(statement.Account, statement.Owner, statement.Transactions)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
