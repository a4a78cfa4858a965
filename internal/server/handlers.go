package server

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowcanvas/pkg/buildinfo"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
	"github.com/matzehuels/flowcanvas/pkg/render/wires"
)

// =============================================================================
// Health and graph
// =============================================================================

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Nodes     int    `json:"nodes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Version: buildinfo.Version, GoVersion: runtime.Version()}
	_ = s.locked(func(st *flow.Store) error {
		for _, m := range st.Modules() {
			ids, _ := st.NodeIDs(m)
			resp.Nodes += len(ids)
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	var g *flow.Graph
	_ = s.locked(func(st *flow.Store) error {
		g = st.ExportAll()
		return nil
	})
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	var g flow.Graph
	if err := decode(w, r, &g); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(st *flow.Store) error { return st.ImportAll(&g) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Modules
// =============================================================================

type modulesResponse struct {
	Active  string   `json:"active"`
	Modules []string `json:"modules"`
}

type moduleRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	var resp modulesResponse
	_ = s.locked(func(st *flow.Store) error {
		resp = modulesResponse{Active: st.ActiveModule(), Modules: st.Modules()}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(st *flow.Store) error { return st.CreateModule(req.Name) }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleSwitchModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(st *flow.Store) error { return st.SwitchModule(req.Name) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.locked(func(st *flow.Store) error { return st.RemoveModule(name) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// snapshot copies one module out of the store.
func (s *Server) snapshot(name string) (*flow.Module, error) {
	var m *flow.Module
	err := s.locked(func(st *flow.Store) error {
		var err error
		m, err = st.Module(name)
		return err
	})
	return m, err
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	m, err := s.snapshot(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := wires.DefaultOptions()
	opts.Curves = s.curves
	ws, err := wires.Paths(m, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ws == nil {
		ws = []wires.Wire{}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.snapshot(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatWires
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	g := &flow.Graph{Modules: map[string]*flow.Module{name: m}}
	res, err := s.runner.Preview(r.Context(), g, pipeline.Options{
		Module:   name,
		Formats:  []string{format},
		Curves:   s.curves,
		Detailed: detailed,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("ETag", strconv.Quote(res.GraphHash))
	w.Header().Set("X-Cache", fmt.Sprintf("%t", res.CacheInfo.RenderHit))
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Nodes
// =============================================================================

type nodeRequest struct {
	Name        string           `json:"name"`
	Inputs      int              `json:"inputs"`
	Outputs     int              `json:"outputs"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	Class       string           `json:"class"`
	Data        map[string]any   `json:"data"`
	Content     string           `json:"content"`
	ContentKind flow.ContentKind `json:"contentKind"`
	Module      string           `json:"module"`
}

type idResponse struct {
	ID flow.NodeID `json:"id"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	content := flow.Content{Kind: req.ContentKind, Body: req.Content}
	if content.Kind == "" {
		content.Kind = flow.ContentPlain
	}
	if !content.Valid() {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown content kind %q", req.ContentKind))
		return
	}

	var id flow.NodeID
	err := s.locked(func(st *flow.Store) error {
		var err error
		id, err = st.AddNode(flow.NodeSpec{
			Name:    req.Name,
			Inputs:  req.Inputs,
			Outputs: req.Outputs,
			X:       req.X,
			Y:       req.Y,
			Class:   req.Class,
			Data:    req.Data,
			Content: content,
			Module:  req.Module,
		})
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func nodeID(r *http.Request) flow.NodeID { return flow.NodeID(chi.URLParam(r, "id")) }

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	var n *flow.Node
	err := s.locked(func(st *flow.Store) error {
		var err error
		n, err = st.GetNode(nodeID(r))
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	if err := s.locked(func(st *flow.Store) error { return st.RemoveNode(nodeID(r)) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := decode(w, r, &data); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(st *flow.Store) error { return st.UpdateNodePayload(nodeID(r), data) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var p flow.Point
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(st *flow.Store) error { return st.MoveNode(nodeID(r), p.X, p.Y) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type portResponse struct {
	Port string `json:"port"`
}

func sideParam(r *http.Request) (flow.Side, error) {
	return flow.ParseSide(chi.URLParam(r, "side"))
}

func (s *Server) handleAddPort(w http.ResponseWriter, r *http.Request) {
	side, err := sideParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var name string
	err = s.locked(func(st *flow.Store) error {
		var err error
		name, err = st.AddPort(nodeID(r), side)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, portResponse{Port: name})
}

func (s *Server) handleRemovePort(w http.ResponseWriter, r *http.Request) {
	side, err := sideParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	port := chi.URLParam(r, "port")
	if err := s.locked(func(st *flow.Store) error { return st.RemovePort(nodeID(r), side, port) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Connections
// =============================================================================

type createdResponse struct {
	Created bool `json:"created"`
}

func (s *Server) handleAddConnection(w http.ResponseWriter, r *http.Request) {
	var c flow.Connection
	if err := decode(w, r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	var created bool
	err := s.locked(func(st *flow.Store) error {
		var err error
		created, err = st.AddConnection(c)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, createdResponse{Created: created})
}

func (s *Server) handleRemoveConnection(w http.ResponseWriter, r *http.Request) {
	var c flow.Connection
	if err := decode(w, r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	var removed bool
	_ = s.locked(func(st *flow.Store) error {
		removed = st.RemoveConnection(c)
		return nil
	})
	if !removed {
		s.writeError(w, errors.New(errors.ErrCodeConnectionNotFound, "connection %s not found", c))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pointRequest struct {
	Connection flow.Connection `json:"connection"`
	// Index inserts before the index-th point; -1 appends.
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type indexResponse struct {
	Index int `json:"index"`
}

func (s *Server) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	req := pointRequest{Index: -1}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var index int
	err := s.locked(func(st *flow.Store) error {
		var err error
		index, err = st.AddReroutePoint(req.Connection, req.Index, flow.Point{X: req.X, Y: req.Y})
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, indexResponse{Index: index})
}
