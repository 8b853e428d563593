// Package server exposes the calculation engines over an HTTP JSON API.
// Monetary response fields are rounded to two decimals here, at the
// presentation boundary; the engines themselves return unrounded values.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/homeready/homeready/internal/advisory"
	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/internal/engine"
	"github.com/homeready/homeready/internal/repository"
	"github.com/homeready/homeready/pkg/mathutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger   *zap.Logger
	schedule config.RateSchedule
	cache    repository.Cache
	cacheTTL time.Duration
	advisor  *advisory.Generator
	version  string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, schedule config.RateSchedule, cache repository.Cache,
	cacheTTL time.Duration, advisor *advisory.Generator, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = repository.NewMemoryCache()
	}

	h := &handler{
		logger:   logger,
		schedule: schedule,
		cache:    cache,
		cacheTTL: cacheTTL,
		advisor:  advisor,
		version:  version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/calculate/loan-limit", h.handleLoanLimit)
	mux.HandleFunc("/api/v1/calculate/acquisition-tax", h.handleAcquisitionTax)
	mux.HandleFunc("/api/v1/calculate/transfer-tax", h.handleTransferTax)
	mux.HandleFunc("/api/v1/calculate/affordability", h.handleAffordability)
	mux.HandleFunc("/api/v1/calculate/compare", h.handleCompare)
	mux.HandleFunc("/api/v1/schedule", h.handleSchedule)
	mux.HandleFunc("/api/v1/version", h.handleVersion)

	return mux
}

type loanLimitRequest struct {
	AnnualIncome               float64 `json:"annualIncome"`
	LiquidCash                 float64 `json:"liquidCash"`
	ExistingMonthlyDebtPayment float64 `json:"existingMonthlyDebtPayment"`
	TargetPrice                float64 `json:"targetPrice"`
	AnnualInterestRatePct      float64 `json:"annualInterestRatePct"`
	TermYears                  int     `json:"termYears"`
}

type loanLimitResponse struct {
	LTVLimit          float64 `json:"ltvLimit"`
	DSRLimit          float64 `json:"dsrLimit"`
	BindingLimit      float64 `json:"bindingLimit"`
	BindingConstraint string  `json:"bindingConstraint"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	Advice            string  `json:"advice,omitempty"`
}

func (h *handler) handleLoanLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loanLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := engine.BorrowerProfile{
		AnnualIncome:               req.AnnualIncome,
		LiquidCash:                 req.LiquidCash,
		ExistingMonthlyDebtPayment: req.ExistingMonthlyDebtPayment,
	}
	request := engine.LoanRequest{
		TargetPrice:           req.TargetPrice,
		AnnualInterestRatePct: req.AnnualInterestRatePct,
		TermYears:             req.TermYears,
	}

	cacheKey := fmt.Sprintf("loan-limit:%+v:%+v", profile, request)
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	result, err := engine.ComputeLoanLimit(profile, request, h.schedule)
	if err != nil {
		h.respondEngineError(w, "loan-limit", err)
		return
	}

	resp := loanLimitResponse{
		LTVLimit:          mathutil.Round(result.LTVLimit),
		DSRLimit:          mathutil.Round(result.DSRLimit),
		BindingLimit:      mathutil.Round(result.BindingLimit),
		BindingConstraint: result.BindingConstraint,
		MonthlyPayment:    mathutil.Round(result.MonthlyPayment),
	}
	if h.advisor != nil {
		resp.Advice = h.advisor.LoanLimitAdvice(r.Context(), request, result)
	}
	h.respondJSON(r.Context(), w, cacheKey, resp)
}

type acquisitionTaxRequest struct {
	Price              float64 `json:"price"`
	OwnedHouseCount    int     `json:"ownedHouseCount"`
	FloorAreaExceeds85 bool    `json:"floorAreaExceeds85"`
}

type acquisitionTaxResponse struct {
	RatePct   float64 `json:"ratePct"`
	TaxAmount float64 `json:"taxAmount"`
}

func (h *handler) handleAcquisitionTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req acquisitionTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cacheKey := fmt.Sprintf("acquisition-tax:%+v", req)
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	result, err := engine.ComputeAcquisitionTax(req.Price, req.OwnedHouseCount, req.FloorAreaExceeds85, h.schedule)
	if err != nil {
		h.respondEngineError(w, "acquisition-tax", err)
		return
	}

	h.respondJSON(r.Context(), w, cacheKey, acquisitionTaxResponse{
		RatePct:   result.RatePct,
		TaxAmount: mathutil.Round(result.TaxAmount),
	})
}

type transferTaxRequest struct {
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`
	HoldingYears  float64 `json:"holdingYears"`
}

type transferTaxResponse struct {
	Gain            float64 `json:"gain"`
	TaxBase         float64 `json:"taxBase"`
	MarginalRatePct float64 `json:"marginalRatePct"`
	TaxAmount       float64 `json:"taxAmount"`
}

func (h *handler) handleTransferTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transferTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cacheKey := fmt.Sprintf("transfer-tax:%+v", req)
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	result, err := engine.ComputeTransferTax(req.PurchasePrice, req.SalePrice, req.HoldingYears, h.schedule)
	if err != nil {
		h.respondEngineError(w, "transfer-tax", err)
		return
	}

	h.respondJSON(r.Context(), w, cacheKey, transferTaxResponse{
		Gain:            mathutil.Round(result.Gain),
		TaxBase:         mathutil.Round(result.TaxBase),
		MarginalRatePct: result.MarginalRatePct,
		TaxAmount:       mathutil.Round(result.TaxAmount),
	})
}

type affordabilityRequest struct {
	AnnualIncome               float64 `json:"annualIncome"`
	LiquidCash                 float64 `json:"liquidCash"`
	ExistingMonthlyDebtPayment float64 `json:"existingMonthlyDebtPayment"`
	TargetPrice                float64 `json:"targetPrice"`
}

type affordabilityResponse struct {
	Score        int     `json:"score"`
	Grade        string  `json:"grade"`
	RequiredCash float64 `json:"requiredCash"`
	GapAmount    float64 `json:"gapAmount"`
	Advice       string  `json:"advice,omitempty"`
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req affordabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := engine.BorrowerProfile{
		AnnualIncome:               req.AnnualIncome,
		LiquidCash:                 req.LiquidCash,
		ExistingMonthlyDebtPayment: req.ExistingMonthlyDebtPayment,
	}

	cacheKey := fmt.Sprintf("affordability:%+v:%v", profile, req.TargetPrice)
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	result, err := engine.ComputeAffordability(profile, req.TargetPrice, h.schedule)
	if err != nil {
		h.respondEngineError(w, "affordability", err)
		return
	}

	resp := affordabilityResponse{
		Score:        result.Score,
		Grade:        result.Grade,
		RequiredCash: mathutil.Round(result.RequiredCash),
		GapAmount:    mathutil.Round(result.GapAmount),
	}
	if h.advisor != nil {
		resp.Advice = h.advisor.AffordabilityAdvice(r.Context(), req.TargetPrice, result)
	}
	h.respondJSON(r.Context(), w, cacheKey, resp)
}

type compareRequest struct {
	AnnualIncome               float64 `json:"annualIncome"`
	LiquidCash                 float64 `json:"liquidCash"`
	ExistingMonthlyDebtPayment float64 `json:"existingMonthlyDebtPayment"`
	TargetPrice                float64 `json:"targetPrice"`
	AnnualInterestRatePct      float64 `json:"annualInterestRatePct"`
	TermYears                  int     `json:"termYears"`
	WaitYears                  int     `json:"waitYears"`
	PriceAppreciationPct       float64 `json:"priceAppreciationPct"`
	IncomeGrowthPct            float64 `json:"incomeGrowthPct"`
	SavingsRatePct             float64 `json:"savingsRatePct"`
	InterestRateChangePct      float64 `json:"interestRateChangePct"`
}

type scenarioOutcomeResponse struct {
	TargetPrice    float64 `json:"targetPrice"`
	Score          int     `json:"score"`
	Grade          string  `json:"grade"`
	MaxLoan        float64 `json:"maxLoan"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	CashGap        float64 `json:"cashGap"`
}

type compareProjectionResponse struct {
	WaitYears      int     `json:"waitYears"`
	PriceChange    float64 `json:"priceChange"`
	IncomeChange   float64 `json:"incomeChange"`
	SavingsGained  float64 `json:"savingsGained"`
	Recommendation string  `json:"recommendation"`
}

type compareResponse struct {
	BuyNow     scenarioOutcomeResponse   `json:"buyNow"`
	BuyLater   scenarioOutcomeResponse   `json:"buyLater"`
	Projection compareProjectionResponse `json:"projection"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := engine.BorrowerProfile{
		AnnualIncome:               req.AnnualIncome,
		LiquidCash:                 req.LiquidCash,
		ExistingMonthlyDebtPayment: req.ExistingMonthlyDebtPayment,
	}
	request := engine.LoanRequest{
		TargetPrice:           req.TargetPrice,
		AnnualInterestRatePct: req.AnnualInterestRatePct,
		TermYears:             req.TermYears,
	}
	projection := engine.ScenarioProjection{
		WaitYears:             req.WaitYears,
		PriceAppreciationPct:  req.PriceAppreciationPct,
		IncomeGrowthPct:       req.IncomeGrowthPct,
		SavingsRatePct:        req.SavingsRatePct,
		InterestRateChangePct: req.InterestRateChangePct,
	}

	cacheKey := fmt.Sprintf("compare:%+v:%+v:%+v", profile, request, projection)
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	result, err := engine.CompareScenarios(profile, request, projection, h.schedule)
	if err != nil {
		h.respondEngineError(w, "compare", err)
		return
	}

	h.respondJSON(r.Context(), w, cacheKey, compareResponse{
		BuyNow:   scenarioOutcomeResponse(roundOutcome(result.BuyNow)),
		BuyLater: scenarioOutcomeResponse(roundOutcome(result.BuyLater)),
		Projection: compareProjectionResponse{
			WaitYears:      projection.WaitYears,
			PriceChange:    mathutil.Round(result.PriceChange),
			IncomeChange:   mathutil.Round(result.IncomeChange),
			SavingsGained:  mathutil.Round(result.SavingsGained),
			Recommendation: result.Recommendation,
		},
	})
}

func roundOutcome(outcome engine.ScenarioOutcome) engine.ScenarioOutcome {
	outcome.TargetPrice = mathutil.Round(outcome.TargetPrice)
	outcome.MaxLoan = mathutil.Round(outcome.MaxLoan)
	outcome.MonthlyPayment = mathutil.Round(outcome.MonthlyPayment)
	outcome.CashGap = mathutil.Round(outcome.CashGap)
	return outcome
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := yaml.Marshal(h.schedule)
	if err != nil {
		h.logger.Error("failed to serialize schedule",
			zap.String("op", "server.handleSchedule"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to serialize schedule")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"version": h.version})
}

// serveCached writes a previously cached response body if one exists.
func (h *handler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	cached, ok := h.cache.Get(ctx, key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(cached))
	return true
}

func (h *handler) respondJSON(ctx context.Context, w http.ResponseWriter, cacheKey string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}

	if err := h.cache.Set(ctx, cacheKey, string(data), h.cacheTTL); err != nil {
		// Not critical; the next request recomputes.
		h.logger.Warn("failed to cache result",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (h *handler) respondEngineError(w http.ResponseWriter, op string, err error) {
	var inputErr *engine.InvalidInputError
	var confErr *engine.ConfigurationError

	switch {
	case errors.As(err, &inputErr):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &confErr):
		h.logger.Error("schedule rejected by engine",
			zap.String("op", "server."+op),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "unable to calculate")
	default:
		h.logger.Error("calculation failed",
			zap.String("op", "server."+op),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "unable to calculate")
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
