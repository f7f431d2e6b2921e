package economy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Handler exposes the engine's operation surface as JSON endpoints. The
// store resolver picks the per-profile engine for each request.
type Handler struct {
	storeResolver func(*http.Request) *Store
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) SetStoreResolver(fn func(*http.Request) *Store) {
	h.storeResolver = fn
}

func (h *Handler) storeForRequest(r *http.Request) *Store {
	if h.storeResolver == nil {
		return nil
	}
	return h.storeResolver(r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeRejection maps an engine rejection to a status code. Rejections
// never change state, so the client can always retry.
func writeRejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		writeErr(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ErrProtectedAsset),
		errors.Is(err, ErrAlreadyClaimedToday),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrLevelNotReached):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

type stateResponse struct {
	State          PlayerState `json:"state"`
	GenerationRate float64     `json:"generationRate"`
}

func (h *Handler) stateResponse(s *Store) stateResponse {
	snap := s.Snapshot()
	return stateResponse{
		State:          snap,
		GenerationRate: s.RateFor(snap),
	}
}

func (h *Handler) require(w http.ResponseWriter, r *http.Request, method string) *Store {
	if r.Method != method {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil
	}
	s := h.storeForRequest(r)
	if s == nil {
		writeErr(w, http.StatusInternalServerError, "economy engine unavailable")
	}
	return s
}

// GET /api/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodGet)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/missions/complete
func (h *Handler) CompleteMission(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		Reward int `json:"reward"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if err := s.CompleteMission(in.Reward); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/quiz/answer
func (h *Handler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		Reward int `json:"reward"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if err := s.AnswerQuizCorrectly(in.Reward); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/coins
func (h *Handler) AddCoins(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.AddCoins(in.Amount); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/characters/unlock
func (h *Handler) UnlockCharacter(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.ID) == "" {
		writeErr(w, http.StatusBadRequest, `missing field "id"`)
		return
	}
	if err := s.UnlockCharacter(in.ID, in.Name, in.Image); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/characters/upgrade
func (h *Handler) UpgradeCharacter(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.UpgradeCharacter(in.ID); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/characters/select
func (h *Handler) SelectIncomeSource(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.SelectIncomeSource(in.ID); err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(s))
}

// POST /api/characters/fuse
func (h *Handler) FuseCharacters(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		First  string `json:"first"`
		Second string `json:"second"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	child, err := s.FuseCharacters(in.First, in.Second)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fusion": child,
		"state":  h.stateResponse(s),
	})
}

// POST /api/characters/sell
func (h *Handler) SellCharacter(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	price, err := s.SellCharacter(in.ID)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"price": price,
		"state": h.stateResponse(s),
	})
}

// POST /api/rewards/claim
func (h *Handler) ClaimLevelReward(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	var in struct {
		Level int `json:"level"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	credited, err := s.ClaimLevelUpReward(in.Level)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"credited": credited,
		"state":    h.stateResponse(s),
	})
}

// POST /api/bonus/claim
func (h *Handler) ClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	s := h.require(w, r, http.MethodPost)
	if s == nil {
		return
	}
	res, err := s.ClaimDailyBonus()
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bonus": res,
		"state": h.stateResponse(s),
	})
}
