package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/app"
	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	coresafe "github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	api "github.com/etherfi-protocol/cash-safe/pkg/safe"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Handler serves the safe API over the application use cases
type Handler struct {
	App *app.App
}

func addressParam(c *gin.Context, name string) (common.Address, bool) {
	s := c.Param(name)
	if !common.IsHexAddress(s) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error: "invalid address: " + s,
			Code:  domain.ErrInvalidInput.Error(),
		})
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error: err.Error(),
		Code:  domain.ErrInvalidInput.Error(),
	})
}

// statusFor maps an error kind to an HTTP status
func statusFor(kind error) int {
	switch kind {
	case nil:
		return http.StatusInternalServerError
	case domain.ErrSafeNotFound:
		return http.StatusNotFound
	case domain.ErrSafeAlreadyExists,
		domain.ErrRecoveryDigestUsed,
		domain.ErrTransactionAlreadyCleared,
		domain.ErrModeAlreadySet,
		domain.ErrNoPendingWithdrawal,
		domain.ErrCannotProcessWithdrawalYet,
		domain.ErrRecoveryDisabled:
		return http.StatusConflict
	case domain.ErrEmptySigners,
		domain.ErrInvalidSigner,
		domain.ErrInvalidContractSigner,
		domain.ErrInvalidRecoverySigner,
		domain.ErrInvalidSignatures,
		domain.ErrInvalidRecoverySignatures,
		domain.ErrInsufficientSigners,
		domain.ErrInsufficientRecoverySignatures:
		return http.StatusForbidden
	case domain.ErrExceededDailySpendingLimit,
		domain.ErrExceededMonthlySpendingLimit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// writeError renders err with its kind, index and quorum details
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	resp := api.ErrorResponse{Error: err.Error()}
	if kind != nil {
		resp.Code = kind.Error()
	}
	if idx, ok := domain.IndexOf(err); ok {
		resp.Index = &idx
	}
	var qe domain.QuorumError
	if errors.As(err, &qe) {
		resp.Valid = qe.Valid
		resp.Threshold = qe.Threshold
		resp.Failures = lo.Map(qe.Failures, func(f domain.SignatureFailure, _ int) api.SignatureFailure {
			return api.SignatureFailure{Index: f.Index, Error: f.Err.Error()}
		})
	}
	c.JSON(statusFor(kind), resp)
}

func decodeOperation(method string, args []byte) (coresafe.Operation, error) {
	m, err := digest.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return coresafe.DecodeOperation(m, args)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chainId": h.App.Config.ChainID})
}

func (h *Handler) ListSafes(c *gin.Context) {
	safes, err := h.App.ListSafes.Run(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if safes == nil {
		safes = []*models.SafeAccount{}
	}
	c.JSON(http.StatusOK, safes)
}

func (h *Handler) CreateSafe(c *gin.Context) {
	var req api.CreateSafeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	params := usecase.CreateSafeParams{
		Salt:         req.Salt,
		Owners:       req.Owners,
		Threshold:    req.Threshold,
		Admins:       req.Admins,
		Modules:      req.Modules,
		DailyLimit:   req.DailyLimit,
		MonthlyLimit: req.MonthlyLimit,
	}
	if req.Address != nil {
		params.Address = *req.Address
	}
	if req.TimezoneOffsetSeconds != nil {
		tz := time.Duration(*req.TimezoneOffsetSeconds) * time.Second
		params.TimezoneOffset = &tz
	}

	result, err := h.App.CreateSafe.Run(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetSafe(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	view, err := h.App.ShowSafe.Run(c.Request.Context(), addr)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetModule(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	module, ok := addressParam(c, "module")
	if !ok {
		return
	}
	enabled, err := h.App.CheckModule.Run(c.Request.Context(), addr, module)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ModuleStatus{Safe: addr, Module: module, Enabled: enabled})
}

func (h *Handler) GetSpending(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var amount uint64
	if s := c.Query("amount"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			badRequest(c, err)
			return
		}
		amount = v
	}
	report, err := h.App.CheckSpending.Run(c.Request.Context(), addr, amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Digest(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var req api.DigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	op, err := decodeOperation(req.Method, req.Args)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.App.ComputeDigest.Run(c.Request.Context(), usecase.ComputeDigestParams{Safe: addr, Operation: op})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Execute(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var req api.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	op, err := decodeOperation(req.Method, req.Args)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.App.ExecuteOperation.Run(c.Request.Context(), usecase.ExecuteOperationParams{
		Safe:      addr,
		Operation: op,
		Proof:     coresafe.Proof{Signers: req.Proof.Signers, Signatures: req.Proof.Signatures},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Spend(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var req api.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.App.SettleSpend.Run(c.Request.Context(), usecase.SpendParams{
		Safe:   addr,
		TxID:   req.TxID,
		Amount: req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ProcessWithdrawal(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	result, err := h.App.ProcessWithdrawal.Run(c.Request.Context(), addr)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListModules(c *gin.Context) {
	modules, err := h.App.ModuleRegistry.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if modules == nil {
		modules = []common.Address{}
	}
	c.JSON(http.StatusOK, modules)
}

func (h *Handler) AllowModule(c *gin.Context) {
	module, ok := addressParam(c, "module")
	if !ok {
		return
	}
	if err := h.App.ModuleRegistry.Add(c.Request.Context(), module); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) DisallowModule(c *gin.Context) {
	module, ok := addressParam(c, "module")
	if !ok {
		return
	}
	if err := h.App.ModuleRegistry.Remove(c.Request.Context(), module); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
