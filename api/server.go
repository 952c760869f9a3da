// Package api serves recorded backtest results over HTTP, read-only.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MHMJerry/BackTest-ZZ800/journal"
	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// Server exposes a SQLite journal's runs, daily ledger, and lot records.
type Server struct {
	jrnl *journal.SQLiteJournal
	log  *logrus.Logger
}

func NewServer(jrnl *journal.SQLiteJournal, log *logrus.Logger) *Server {
	return &Server{jrnl: jrnl, log: log}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)
	v1.GET("/runs/:id/days", s.listDays)
	v1.GET("/runs/:id/lots", s.listLots)

	return r
}

type runResponse struct {
	RunID      string    `json:"run_id"`
	Created    time.Time `json:"created"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Days       int       `json:"days"`
	Capital    float64   `json:"capital"`
	HedgeRatio float64   `json:"hedge_ratio"`
	FinalAsset float64   `json:"final_asset"`
	FinalCash  float64   `json:"final_cash"`
}

type dayResponse struct {
	Date         string  `json:"date"`
	TotalAsset   float64 `json:"total_asset"`
	Cash         float64 `json:"cash"`
	LongHolding  float64 `json:"long_holding"`
	ShortHolding float64 `json:"short_holding"`
	ShortMargin  float64 `json:"short_margin"`
	LongFee      float64 `json:"long_fee"`
	ShortFee     float64 `json:"short_fee"`
}

type lotResponse struct {
	Stock string  `json:"stock"`
	Price float64 `json:"price"`
	Units float64 `json:"n"`
	Real  float64 `json:"real"`
	Date  string  `json:"date"`
}

func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func toRunResponse(r journal.RunRow) runResponse {
	return runResponse{
		RunID:      r.RunID,
		Created:    r.Created,
		Start:      r.Start.String(),
		End:        r.End.String(),
		Days:       r.Days,
		Capital:    r.Capital,
		HedgeRatio: r.HedgeRatio,
		FinalAsset: r.FinalAsset,
		FinalCash:  r.FinalCash,
	}
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.jrnl.ListRuns()
	if err != nil {
		s.log.WithError(err).Error("list runs")
		errorJSON(c, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, toRunResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) getRun(c *gin.Context) {
	run, err := s.jrnl.GetRun(c.Param("id"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, "RUN_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

func (s *Server) listDays(c *gin.Context) {
	start := market.Date(c.Query("start"))
	end := market.Date(c.Query("end"))

	days, err := s.jrnl.ListDays(c.Param("id"), start, end)
	if err != nil {
		s.log.WithError(err).Error("list days")
		errorJSON(c, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	out := make([]dayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dayResponse{
			Date:         d.Date.String(),
			TotalAsset:   d.TotalAsset,
			Cash:         d.Cash,
			LongHolding:  d.LongHolding,
			ShortHolding: d.ShortHolding,
			ShortMargin:  d.ShortMargin,
			LongFee:      d.LongFee,
			ShortFee:     d.ShortFee,
		})
	}
	c.JSON(http.StatusOK, gin.H{"days": out})
}

func (s *Server) listLots(c *gin.Context) {
	date := market.Date(c.Query("date"))

	lots, err := s.jrnl.ListLots(c.Param("id"), date)
	if err != nil {
		s.log.WithError(err).Error("list lots")
		errorJSON(c, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	out := make([]lotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, lotResponse{
			Stock: l.Stock,
			Price: l.Price,
			Units: l.Units,
			Real:  l.Real,
			Date:  l.Date.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"lots": out})
}
