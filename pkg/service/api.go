package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const (
	combinedFile = "all_instances.json"
	summaryFile  = "summary.json"

	routeInstances = "/api/v1/instances"
	routeProvider  = "/api/v1/instances/{provider}"
	routeSummary   = "/api/v1/summary"
)

// API serves the snapshot files written by the collection pipeline. Data is
// read from disk per request so a snapshot rewrite is picked up without a
// restart.
type API struct {
	DataDir string
	Logger  *zap.SugaredLogger
}

func NewAPI(dataDir string, logger *zap.SugaredLogger) *API {
	return &API{DataDir: dataDir, Logger: logger}
}

// Register attaches the snapshot routes to a router.
func (a *API) Register(router *mux.Router) {
	router.Path(routeInstances).HandlerFunc(a.handleInstances)
	router.Path(routeProvider).HandlerFunc(a.handleProvider)
	router.Path(routeSummary).HandlerFunc(a.handleSummary)
}

func (a *API) handleInstances(w http.ResponseWriter, r *http.Request) {
	a.serveSnapshotFile(w, routeInstances, combinedFile)
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	a.serveSnapshotFile(w, routeSummary, summaryFile)
}

func (a *API) handleProvider(w http.ResponseWriter, r *http.Request) {
	name := schema.Provider(mux.Vars(r)["provider"])
	if !name.Known() {
		a.writeError(w, routeProvider, http.StatusNotFound)

		return
	}

	a.serveSnapshotFile(w, routeProvider, fmt.Sprintf("%s.json", name))
}

// serveSnapshotFile streams one snapshot file; a missing file is the
// explicit no-data state, not an internal error.
func (a *API) serveSnapshotFile(w http.ResponseWriter, route, filename string) {
	data, err := os.ReadFile(filepath.Join(a.DataDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			a.writeError(w, route, http.StatusNotFound)

			return
		}

		a.namedLogger().With(log.KeyError, err.Error()).Errorf("read snapshot file %s", filename)
		a.writeError(w, route, http.StatusInternalServerError)

		return
	}

	recordRequest(route, http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		a.namedLogger().With(log.KeyError, err.Error()).Warn("write response")
	}
}

func (a *API) writeError(w http.ResponseWriter, route string, status int) {
	recordRequest(route, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]string{"error": "no data"}
	if status != http.StatusNotFound {
		body["error"] = strconv.Itoa(status)
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.namedLogger().With(log.KeyError, err.Error()).Warn("write error response")
	}
}

func (a *API) namedLogger() *zap.SugaredLogger {
	return a.Logger.Named("api").With("component", "cpf")
}
