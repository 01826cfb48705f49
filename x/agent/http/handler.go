package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	apicommon "github.com/intent-network/relayer/server/api"
	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/stats"
	"github.com/intent-network/relayer/x/store"
)

// AgentView is the read-only surface the handler exposes over HTTP.
type AgentView interface {
	Stats() stats.Snapshot
	Pending() []*proof.Proof
}

type Handler struct {
	agent AgentView
	store store.Store
	log   zerolog.Logger
}

func NewHandler(agent AgentView, st store.Store, log zerolog.Logger) *Handler {
	return &Handler{
		agent: agent,
		store: st,
		log:   log.With().Str("component", "agent-http").Logger(),
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	apicommon.WriteJSON(w, http.StatusOK, h.agent.Stats())
}

// pendingEntry is the JSON shape for a deferred proof awaiting retry.
type pendingEntry struct {
	ID        string    `json:"id"`
	Submitter string    `json:"submitter"`
	AssetIn   string    `json:"asset_in"`
	AssetOut  string    `json:"asset_out"`
	AmountIn  string    `json:"amount_in"`
	AmountOut string    `json:"amount_out"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	pending := h.agent.Pending()
	entries := make([]pendingEntry, 0, len(pending))
	for _, p := range pending {
		entries = append(entries, pendingEntry{
			ID:        p.ID.Hex(),
			Submitter: p.Submitter.Hex(),
			AssetIn:   p.AssetIn.Hex(),
			AssetOut:  p.AssetOut.Hex(),
			AmountIn:  p.AmountIn.String(),
			AmountOut: p.AmountOut.String(),
			ExpiresAt: p.ExpiresAt,
		})
	}
	apicommon.WriteJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"pending": entries,
	})
}

// proofStatus is the JSON shape for a single proof lookup.
type proofStatus struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	TxHash         string `json:"tx_hash,omitempty"`
	ConfirmedBlock uint64 `json:"confirmed_block,omitempty"`
	FeePaid        string `json:"fee_paid,omitempty"`
	SettledAt      string `json:"settled_at,omitempty"`
}

func (h *Handler) handleProofByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := strings.TrimSpace(vars["id"])
	if idStr == "" {
		apicommon.WriteError(w, r, http.StatusBadRequest, "missing_path_param", "provide /v1/proofs/{id}", nil)
		return
	}

	b, err := hexutil.Decode(idStr)
	if err != nil || len(b) != common.HashLength {
		apicommon.WriteError(
			w, r,
			http.StatusBadRequest,
			"invalid_proof_id",
			fmt.Sprintf("expect %d-byte hash", common.HashLength),
			nil,
		)
		return
	}
	id := common.BytesToHash(b)

	if rec, ok := h.store.Get(id); ok {
		apicommon.WriteJSON(w, http.StatusOK, proofStatus{
			ID:             id.Hex(),
			Status:         "settled",
			TxHash:         rec.TxHash.Hex(),
			ConfirmedBlock: rec.ConfirmedBlock,
			FeePaid:        rec.FeePaid.String(),
			SettledAt:      rec.SettledAt.UTC().Format(time.RFC3339),
		})
		return
	}

	for _, p := range h.agent.Pending() {
		if p.ID == id {
			apicommon.WriteJSON(w, http.StatusOK, proofStatus{ID: id.Hex(), Status: "pending"})
			return
		}
	}

	if h.store.IsKnown(id) {
		apicommon.WriteJSON(w, http.StatusOK, proofStatus{ID: id.Hex(), Status: "in_flight"})
		return
	}

	apicommon.WriteError(w, r, http.StatusNotFound, "not_found", "unknown proof id", nil)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	apicommon.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
