package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aukit/nof1-reporter/internal/report"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleTradeSummary(c *gin.Context) {
	snap, ok := s.freshSnapshot(c)
	if !ok {
		return
	}
	if snap.Overall.TradesSummary == nil {
		errorResponse(c, http.StatusBadGateway, "SOURCE_UNAVAILABLE", "trades source unavailable")
		return
	}
	c.JSON(http.StatusOK, snap.Overall.TradesSummary)
}

func (s *Server) handleAccountSummary(c *gin.Context) {
	snap, ok := s.freshSnapshot(c)
	if !ok {
		return
	}
	if snap.Overall.AccountSummary == nil {
		errorResponse(c, http.StatusBadGateway, "SOURCE_UNAVAILABLE", "account totals source unavailable")
		return
	}
	c.JSON(http.StatusOK, snap.Overall.AccountSummary)
}

func (s *Server) handleOverallSummary(c *gin.Context) {
	snap, ok := s.freshSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trades_summary":  snap.Overall.TradesSummary,
		"account_summary": snap.Overall.AccountSummary,
		"overall": gin.H{
			"total_pnl":        snap.Overall.TotalPnL,
			"total_commission": snap.Overall.TotalCommission,
		},
		"partial":         snap.Overall.Partial,
		"skipped_records": snap.Skipped.Total,
	})
}

func (s *Server) freshSnapshot(c *gin.Context) (*report.Snapshot, bool) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		var unavailable *report.SourceUnavailableError
		if errors.As(err, &unavailable) {
			errorResponse(c, http.StatusBadGateway, "SOURCE_UNAVAILABLE", unavailable.Error())
		} else {
			s.logger.Error("build snapshot", "error", err)
			errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build summary")
		}
		return nil, false
	}
	return snap, true
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
