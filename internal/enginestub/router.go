package enginestub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Starpact/tlc/internal/engine"
)

type Dependencies struct {
	State  *State
	Cases  *CaseStore
	Hub    *ProgressHub
	Solver *Solver
	Logger *slog.Logger
}

type router struct {
	deps Dependencies
}

func NewRouter(deps Dependencies) http.Handler {
	rt := &router{deps: deps}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.handleHealth)
	mux.HandleFunc("/readyz", rt.handleReady)
	mux.HandleFunc("/api/v1/config/default", rt.handleConfigDefault)
	mux.HandleFunc("/api/v1/config/load", rt.handleConfigLoad)
	mux.HandleFunc("/api/v1/config/save", rt.handleConfigSave)
	mux.HandleFunc("/api/v1/config/save-dir", rt.handleSetSaveDir)
	mux.HandleFunc("/api/v1/config/video-path", rt.handleSetVideoPath)
	mux.HandleFunc("/api/v1/config/daq-path", rt.handleSetDaqPath)
	mux.HandleFunc("/api/v1/config/start-frame", rt.handleSetStartFrame)
	mux.HandleFunc("/api/v1/config/start-row", rt.handleSetStartRow)
	mux.HandleFunc("/api/v1/config/region", rt.handleSetRegion)
	mux.HandleFunc("/api/v1/config/synchronize", rt.handleSynchronize)
	mux.HandleFunc("/api/v1/frame", rt.handleFrame)
	mux.HandleFunc("/api/v1/daq", rt.handleDAQ)
	mux.HandleFunc("/api/v1/solve", rt.handleSolve)
	mux.Handle("/api/v1/progress", deps.Hub)
	mux.HandleFunc("/api/v1/cases", rt.handleCases)
	return mux
}

func (r *router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *router) handleReady(w http.ResponseWriter, req *http.Request) {
	if err := r.deps.Cases.Ping(req.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not-ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (r *router) handleConfigDefault(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, r.deps.State.LoadDefault())
}

type pathRequest struct {
	Path string `json:"path"`
}

func (r *router) handleConfigLoad(w http.ResponseWriter, req *http.Request) {
	var payload pathRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.Load(payload.Path)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (r *router) handleConfigSave(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	path, err := r.deps.State.Save()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cfg := r.deps.State.Current()
	if err := r.deps.Cases.RecordSave(req.Context(), CaseRecord{
		CaseName:   cfg.CaseName,
		ConfigPath: path,
		VideoPath:  cfg.VideoPath,
		DaqPath:    cfg.DaqPath,
	}); err != nil {
		r.deps.Logger.Error("failed to record case save", "error", err, "case", cfg.CaseName)
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (r *router) handleSetSaveDir(w http.ResponseWriter, req *http.Request) {
	var payload pathRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetSaveDir(payload.Path)
	writeConfigResult(w, cfg, err)
}

func (r *router) handleSetVideoPath(w http.ResponseWriter, req *http.Request) {
	var payload pathRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetVideoPath(payload.Path)
	writeConfigResult(w, cfg, err)
}

func (r *router) handleSetDaqPath(w http.ResponseWriter, req *http.Request) {
	var payload pathRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetDaqPath(payload.Path)
	writeConfigResult(w, cfg, err)
}

type indexRequest struct {
	Index int `json:"index"`
}

func (r *router) handleSetStartFrame(w http.ResponseWriter, req *http.Request) {
	var payload indexRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetStartFrame(payload.Index)
	writeConfigResult(w, cfg, err)
}

func (r *router) handleSetStartRow(w http.ResponseWriter, req *http.Request) {
	var payload indexRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetStartRow(payload.Index)
	writeConfigResult(w, cfg, err)
}

type regionRequest struct {
	TopLeft [2]int `json:"top_left"`
	Shape   [2]int `json:"shape"`
}

func (r *router) handleSetRegion(w http.ResponseWriter, req *http.Request) {
	var payload regionRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.SetRegion(payload.TopLeft, payload.Shape)
	writeConfigResult(w, cfg, err)
}

type synchronizeRequest struct {
	FrameIndex int `json:"frame_index"`
	RowIndex   int `json:"row_index"`
}

func (r *router) handleSynchronize(w http.ResponseWriter, req *http.Request) {
	var payload synchronizeRequest
	if !decodePost(w, req, &payload) {
		return
	}
	cfg, err := r.deps.State.Synchronize(payload.FrameIndex, payload.RowIndex)
	writeConfigResult(w, cfg, err)
}

func (r *router) handleFrame(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	index, err := strconv.Atoi(req.URL.Query().Get("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index query parameter is required"})
		return
	}
	frame, err := r.deps.State.Frame(index)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (r *router) handleDAQ(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	daq, err := r.deps.State.DAQ()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, daq)
}

func (r *router) handleSolve(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if err := r.deps.State.SolveReady(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, started := r.deps.Solver.Start(context.WithoutCancel(req.Context()), r.deps.State.Current().FrameNum)
	if !started {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a solve is already running"})
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (r *router) handleCases(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	limit := 20
	if raw := req.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	records, err := r.deps.Cases.ListRecent(req.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	payload := make([]map[string]any, 0, len(records))
	for _, record := range records {
		payload = append(payload, map[string]any{
			"case_name":     record.CaseName,
			"config_path":   record.ConfigPath,
			"video_path":    record.VideoPath,
			"daq_path":      record.DaqPath,
			"saved_at_unix": record.SavedAtUnix,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": payload, "count": len(payload)})
}

func decodePost(w http.ResponseWriter, req *http.Request, out any) bool {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	if err := json.NewDecoder(req.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return false
	}
	return true
}

func writeConfigResult(w http.ResponseWriter, cfg engine.Config, err error) {
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
