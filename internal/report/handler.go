package report

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/transport"
	"github.com/javokhirdev/rental-management/pkg/logger"
)

type ServiceAPI interface {
	Revenue(actor *auth.User, q RevenueQuery) ([]RevenuePoint, error)
	SellerKPIs(actor *auth.User, q RevenueQuery) ([]SellerKPI, error)
	SellerBalances(actor *auth.User) ([]SellerBalance, error)
	ListWithdrawals(actor *auth.User) ([]*Withdrawal, error)
	RecordWithdrawal(actor *auth.User, dto CreateWithdrawalDTO) (*Withdrawal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func revenueQuery(r *http.Request) RevenueQuery {
	return RevenueQuery{
		Bucket: r.URL.Query().Get("bucket"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}
}

func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	points, err := h.Service.Revenue(actor, revenueQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) SellerKPIs(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	kpis, err := h.Service.SellerKPIs(actor, revenueQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, kpis)
}

func (h *Handler) SellerBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	balances, err := h.Service.SellerBalances(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, balances)
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	withdrawals, err := h.Service.ListWithdrawals(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, withdrawals)
}

func (h *Handler) RecordWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWithdrawalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordWithdrawal: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	withdrawal, err := h.Service.RecordWithdrawal(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, withdrawal)
}
