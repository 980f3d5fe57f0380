package httpapi

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dozer-finance/reward-service/internal/domain/quest"
	"github.com/dozer-finance/reward-service/internal/httputil"
	"github.com/dozer-finance/reward-service/internal/identity"
	"github.com/dozer-finance/reward-service/internal/quests"
)

// claimBody is the Zealy webhook payload. Providers other than
// zealy-connect may appear under accounts and are ignored.
type claimBody struct {
	Accounts map[string]string `json:"accounts"`
}

const zealyConnectProvider = "zealy-connect"

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rule, ok := s.quests.Rule(vars["quest"])
	if !ok {
		httputil.WriteMessage(w, http.StatusNotFound, "Quest not found !")
		return
	}

	var body claimBody
	if r.Body != nil {
		// A missing or malformed body falls through to the address
		// precondition check, which owns the error message.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	req := quests.Request{
		Address: identity.Normalize(body.Accounts[zealyConnectProvider]),
	}

	switch rule.Resolution {
	case quest.ResolveFixedPool:
		req.PoolName = vars["param"]
	case quest.ResolvePathContract:
		req.ContractID = vars["param"]
	}

	if raw := r.URL.Query().Get("n_of_friends"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteMessage(w, http.StatusBadRequest, "n_of_friends is required !")
			return
		}
		req.Friends = n
	}

	verdict, err := s.quests.Verify(r.Context(), rule, req)
	if err != nil {
		httputil.WriteError(w, r, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordClaimVerdict(rule.Slug, verdict.Claimed)
	}

	if !verdict.Claimed {
		httputil.WriteMessage(w, http.StatusBadRequest, verdict.Message)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, verdict.Message)
}

func (s *Server) handleDailySnapshot(w http.ResponseWriter, r *http.Request) {
	if _, err := s.snapshots.RunDaily(r.Context()); err != nil {
		s.logger.WithContext(r.Context()).WithError(err).Error("daily snapshot failed")
		httputil.WritePlain(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httputil.WritePlain(w, http.StatusOK, "Updated!")
}

func (s *Server) handleHourlySnapshot(w http.ResponseWriter, r *http.Request) {
	if _, err := s.snapshots.RunHourly(r.Context()); err != nil {
		s.logger.WithContext(r.Context()).WithError(err).Error("hourly snapshot failed")
		httputil.WritePlain(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httputil.WritePlain(w, http.StatusOK, "Updated!")
}

// healthResponse reports process liveness plus host stats for the
// deployment dashboard.
type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	MemUsedPct    float64 `json:"mem_used_pct,omitempty"`
	Load1         float64 `json:"load1,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt) / time.Second),
		Goroutines:    runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedPct = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		resp.Load1 = avg.Load1
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
