package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"sbpconv/internal/config"
	"sbpconv/internal/convert"
	"sbpconv/internal/filter"
	"sbpconv/internal/model"
	"sbpconv/internal/plot"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Upload extensions accepted by the converter.
var allowedExts = map[string]bool{".nc": true, ".txt": true}

var errUnsupportedFile = errors.New("only .nc and .txt files are accepted")

// Server is the browser front end: upload a program, download the .SBP and
// view the toolpath preview.
type Server struct {
	cfg    *config.Config
	logger *log.Logger
	store  *store
	mux    *http.ServeMux
}

// NewServer wires the routes.
func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  newStore(cfg.StoreCapacity),
		mux:    http.NewServeMux(),
	}

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /", http.FileServer(http.FS(subFS)))

	// API Endpoints
	s.mux.HandleFunc("POST /api/convert", s.handleConvert)
	s.mux.HandleFunc("GET /api/download", s.handleDownload)
	s.mux.HandleFunc("GET /api/preview.svg", s.handlePreviewSVG)
	s.mux.HandleFunc("GET /api/preview.png", s.handlePreviewPNG)
	s.mux.HandleFunc("GET /api/help", s.handleHelp)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// StartServer starts the web server on the configured port.
func StartServer(cfg *config.Config, logger *log.Logger) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("starting sbpconv web server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	fmt.Printf("Go to http://localhost:%d in your browser.\n", cfg.Port)

	return http.ListenAndServe(addr, NewServer(cfg, logger))
}

type lineView struct {
	Number int                  `json:"number"`
	Class  model.Classification `json:"class"`
	Reason string               `json:"reason,omitempty"`
	Source string               `json:"source"`
	Output []string             `json:"output"`
}

type convertResponse struct {
	ID          string        `json:"id"`
	InputName   string        `json:"inputName"`
	OutputName  string        `json:"outputName"`
	Summary     model.Summary `json:"summary"`
	Preview     bool          `json:"preview"`
	Warning     string        `json:"warning,omitempty"`
	DownloadURL string        `json:"downloadUrl"`
	PreviewURL  string        `json:"previewUrl,omitempty"`
	Lines       []lineView    `json:"lines"`
	Version     string        `json:"version"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		http.Error(w, "could not read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := checkUpload(header.Filename); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !utf8.Valid(data) {
		http.Error(w, "file is not valid UTF-8 text", http.StatusBadRequest)
		return
	}

	conv := convert.Convert(header.Filename, string(data))
	res := &result{conv: conv}

	resp := convertResponse{
		ID:         uuid.NewString(),
		InputName:  conv.InputName,
		OutputName: conv.OutputName,
		Summary:    conv.Summary,
		Version:    model.Version,
	}
	resp.DownloadURL = "/api/download?id=" + resp.ID

	fig, err := convert.Preview(conv, s.cfg.Preview)
	switch {
	case errors.Is(err, plot.ErrNoData):
		resp.Warning = "No coordinates found to plot."
	case errors.Is(err, plot.ErrOutOfRange):
		resp.Warning = "Coordinates are too large to plot."
	case err != nil:
		s.logger.Warn("preview failed", "file", conv.InputName, "err", err)
		resp.Warning = "Preview could not be rendered."
	default:
		res.figure = fig
		resp.Preview = true
		resp.PreviewURL = "/api/preview.svg?id=" + resp.ID
	}

	for _, l := range conv.Lines {
		resp.Lines = append(resp.Lines, lineView{
			Number: l.Number,
			Class:  l.Class,
			Reason: filter.Describe(l),
			Source: l.Source,
			Output: l.Output,
		})
	}

	s.store.put(resp.ID, res)
	s.logger.Info("converted",
		"id", resp.ID,
		"file", conv.InputName,
		"lines", conv.Summary.InputLines,
		"offending", conv.Summary.Offending,
		"redirected", conv.Summary.Redirected,
		"points", len(conv.Path),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func checkUpload(name string) error {
	if !allowedExts[strings.ToLower(filepath.Ext(name))] {
		return errUnsupportedFile
	}
	return nil
}

// lookup fetches the stored conversion named by the id query parameter.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*result, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return nil, false
	}
	res, ok := s.store.get(id)
	if !ok {
		http.Error(w, "conversion not found", http.StatusNotFound)
		return nil, false
	}
	return res, true
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.conv.OutputName))
	io.WriteString(w, res.conv.Output)
}

func (s *Server) handlePreviewSVG(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if res.figure == nil {
		http.Error(w, plot.ErrNoData.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(res.figure.SVG())
}

func (s *Server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if res.figure == nil {
		http.Error(w, plot.ErrNoData.Error(), http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := res.figure.WritePNG(&buf); err != nil {
		s.logger.Error("rasterize preview", "id", r.URL.Query().Get("id"), "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	buf.WriteTo(w)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}
