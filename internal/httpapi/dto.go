package httpapi

import (
	"time"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/ledger"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
)

type splitDTO struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Paid   bool    `json:"paid"`
}

type expenseDTO struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	PayerID     string     `json:"paidBy"`
	Splits      []splitDTO `json:"splitBetween"`
	Notes       string     `json:"notes,omitempty"`
	Settled     bool       `json:"settled"`
	GroupID     string     `json:"groupId,omitempty"`
	CreatedByID string     `json:"createdBy"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

func toExpenseDTO(e *models.Expense) expenseDTO {
	splits := make([]splitDTO, 0, len(e.Splits))
	for _, s := range e.Splits {
		splits = append(splits, splitDTO{
			UserID: s.UserID,
			Amount: ledger.Round2(s.Amount),
			Paid:   s.Paid,
		})
	}
	return expenseDTO{
		ID:          e.ID,
		Description: e.Description,
		Amount:      ledger.Round2(e.Amount),
		Category:    string(e.Category),
		Date:        time.Unix(e.Date, 0).UTC().Format(time.RFC3339),
		PayerID:     e.PayerID,
		Splits:      splits,
		Notes:       e.Notes,
		Settled:     e.Settled,
		GroupID:     e.GroupID,
		CreatedByID: e.CreatedByID,
		CreatedAt:   time.Unix(e.CreatedAt, 0).UTC().Format(time.RFC3339),
		UpdatedAt:   time.Unix(e.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
}

func toExpenseDTOs(expenses []*models.Expense) []expenseDTO {
	out := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseDTO(e))
	}
	return out
}

type balanceDTO struct {
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Net      float64 `json:"netBalance"`
}

func toBalanceDTOs(balances []ledger.Balance) []balanceDTO {
	out := make([]balanceDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceDTO{UserID: b.UserID, UserName: b.UserName, Net: b.Net})
	}
	return out
}

type transferDTO struct {
	FromUserID   string  `json:"from"`
	FromUserName string  `json:"fromName"`
	ToUserID     string  `json:"to"`
	ToUserName   string  `json:"toName"`
	Amount       float64 `json:"amount"`
}

func toTransferDTOs(transfers []ledger.Transfer) []transferDTO {
	out := make([]transferDTO, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferDTO{
			FromUserID:   t.FromUserID,
			FromUserName: t.FromUserName,
			ToUserID:     t.ToUserID,
			ToUserName:   t.ToUserName,
			Amount:       t.Amount,
		})
	}
	return out
}

type budgetDTO struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"userId"`
	Category           string  `json:"category"`
	Month              int     `json:"month"`
	Year               int     `json:"year"`
	Limit              float64 `json:"limit"`
	Spent              float64 `json:"spent"`
	AlertThreshold     float64 `json:"alertThreshold"`
	Color              string  `json:"color"`
	Remaining          float64 `json:"remaining"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	IsExceeded         bool    `json:"isExceeded"`
	AlertTriggered     bool    `json:"alertTriggered"`
}

func toBudgetDTO(v models.BudgetView) budgetDTO {
	return budgetDTO{
		ID:                 v.ID,
		UserID:             v.UserID,
		Category:           string(v.Category),
		Month:              v.Month,
		Year:               v.Year,
		Limit:              v.Limit,
		Spent:              v.Spent,
		AlertThreshold:     v.AlertThreshold,
		Color:              v.Color,
		Remaining:          v.Remaining,
		UtilizationPercent: v.UtilizationPercent,
		IsExceeded:         v.IsExceeded,
		AlertTriggered:     v.AlertTriggered,
	}
}

func toBudgetDTOs(views []models.BudgetView) []budgetDTO {
	out := make([]budgetDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toBudgetDTO(v))
	}
	return out
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

type groupDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MemberIDs   []string `json:"members"`
	CreatedByID string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
}

func toGroupDTO(g *models.Group) groupDTO {
	return groupDTO{
		ID:          g.ID,
		Name:        g.Name,
		MemberIDs:   g.MemberIDs,
		CreatedByID: g.CreatedByID,
		CreatedAt:   time.Unix(g.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}
