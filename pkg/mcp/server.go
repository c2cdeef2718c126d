package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/luxo-ai/infinite-scroll/pkg/log"
	"github.com/luxo-ai/infinite-scroll/pkg/version"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

const (
	tracerName = "github.com/luxo-ai/infinite-scroll/pkg/mcp"

	shutdownTimeout = 5 * time.Second
)

// GetGeometryParams defines parameters for the get_geometry tool.
type GetGeometryParams struct {
	Page *int `json:"page,omitempty"`
}

// GeometryResult describes the window geometry, and the offsets of one page.
type GeometryResult struct {
	Source         string `json:"source,omitempty"`
	PageSize       int    `json:"pageSize"`
	ItemHeight     int    `json:"itemHeight"`
	Gap            int    `json:"gap"`
	Length         int    `json:"length"`
	MaxPage        int    `json:"maxPage"`
	ViewportHeight int    `json:"viewportHeight"`
	Page           int    `json:"page"`
	BufferOffset   int    `json:"bufferOffset"`
	ScrollHeight   int    `json:"scrollHeight"`
}

// GetPageParams defines parameters for the get_page tool.
type GetPageParams struct {
	Page int `json:"page"`
}

// PageResult holds the items of one page.
type PageResult struct {
	Items   []string `json:"items"`
	Page    int      `json:"page"`
	MaxPage int      `json:"maxPage"`
	First   int      `json:"first"`
	Length  int      `json:"length"`
	Clamped bool     `json:"clamped"`
}

type catalog struct {
	seq   window.Sequence[string]
	store *window.Store[string]
	geo   window.Geometry
	label string
}

// Server answers page and geometry queries for the current sequence. The
// sequence can be swapped while the server runs. The server owns the
// sequences it is given, and closes a replaced sequence once no call is
// reading from it.
type Server struct {
	server  *mcp.Server
	tracer  trace.Tracer
	current *catalog
	address string
	mu      sync.RWMutex
}

// NewServer creates a server that will listen on address once [Server.Serve]
// is called.
func NewServer(address string, seq window.Sequence[string], cfg window.Config, label string) (*Server, error) {
	s := &Server{
		address: address,
		tracer:  otel.Tracer(tracerName),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version.GetVersion(),
		}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
	}

	err := s.SetSequence(seq, cfg, label)
	if err != nil {
		return nil, err
	}

	s.registerTools()

	return s, nil
}

// SetSequence replaces the sequence that tools read from. The previous
// sequence is closed if it implements [io.Closer]. If cfg is invalid, seq is
// left open and the current sequence is kept.
func (s *Server) SetSequence(seq window.Sequence[string], cfg window.Config, label string) error {
	geo, err := window.NewGeometry(cfg)
	if err != nil {
		return fmt.Errorf("geometry: %w", err)
	}

	store, err := window.NewStore(seq, cfg.PageSize)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	s.mu.Lock()
	prev := s.current
	s.current = &catalog{seq: seq, store: store, geo: geo, label: label}
	s.mu.Unlock()

	if prev != nil {
		err := closeSeq(prev.seq)
		if err != nil {
			slog.Warn("close previous sequence", slog.Any("error", err))
		}
	}

	return nil
}

// Close waits for running calls to finish, then closes the current sequence.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return closeSeq(s.current.seq)
}

func closeSeq(seq window.Sequence[string]) error {
	c, ok := seq.(io.Closer)
	if !ok {
		return nil
	}

	err := c.Close()
	if err != nil {
		return fmt.Errorf("close sequence: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_geometry",
		Description: "Get the page size, item count, last page index, and the offsets of a page.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"page": {
					Type:        "integer",
					Description: "The page to compute offsets for. Defaults to 0.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleGetGeometry))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_page",
		Description: "Get the items of one page. Pages outside [0, maxPage] are clamped.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"page": {
					Type:        "integer",
					Description: "The page index, starting at 0.",
				},
			},
			Required: []string{"page"},
		},
	}, WithTracing(s.tracer, s.handleGetPage))
}

// Geometry describes the current sequence. A nil page means page 0.
func (s *Server) Geometry(page *int) GeometryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.current
	cfg := c.geo.Config()

	p := 0
	if page != nil {
		p = clampPage(*page, c.store.MaxPage())
	}

	lo, hi := c.store.Bounds(p)

	return GeometryResult{
		Source:         c.label,
		PageSize:       cfg.PageSize,
		ItemHeight:     cfg.ItemHeight,
		Gap:            cfg.Gap,
		Length:         c.store.Len(),
		MaxPage:        c.store.MaxPage(),
		ViewportHeight: c.geo.TriggerHeight(),
		Page:           p,
		BufferOffset:   c.geo.BufferOffset(p),
		ScrollHeight:   c.geo.ScrollHeight(p, hi-lo),
	}
}

// Page returns the items of page, clamped to [0, MaxPage].
func (s *Server) Page(page int) PageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.current
	maxPage := c.store.MaxPage()
	p := clampPage(page, maxPage)
	lo, _ := c.store.Bounds(p)

	return PageResult{
		Items:   c.store.Slice(p),
		Page:    p,
		MaxPage: maxPage,
		First:   lo,
		Length:  c.store.Len(),
		Clamped: p != page,
	}
}

func clampPage(page, maxPage int) int {
	return max(0, min(page, maxPage))
}

func (s *Server) handleGetGeometry(
	_ context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetGeometryParams],
) (*mcp.CallToolResultFor[GeometryResult], error) {
	result := s.Geometry(params.Arguments.Page)

	text := fmt.Sprintf(
		"%d items in pages of %d (last page %d). Page %d starts at offset %d; scroll height %d; viewport %d.",
		result.Length, result.PageSize, result.MaxPage,
		result.Page, result.BufferOffset, result.ScrollHeight, result.ViewportHeight,
	)

	return &mcp.CallToolResultFor[GeometryResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		StructuredContent: result,
	}, nil
}

func (s *Server) handleGetPage(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetPageParams],
) (*mcp.CallToolResultFor[PageResult], error) {
	result := s.Page(params.Arguments.Page)

	log.WithContext(ctx).DebugContext(ctx, "read page",
		slog.Int("page", result.Page),
		slog.Int("items", len(result.Items)),
		slog.Bool("clamped", result.Clamped),
	)

	return &mcp.CallToolResultFor[PageResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatPage(result)},
		},
		StructuredContent: result,
	}, nil
}

func formatPage(result PageResult) string {
	var sb strings.Builder

	if len(result.Items) == 0 {
		return "The sequence is empty."
	}

	fmt.Fprintf(&sb, "Page %d (last page %d)", result.Page, result.MaxPage)

	if result.Clamped {
		sb.WriteString(" (clamped)")
	}

	sb.WriteString(":\n")

	for i, item := range result.Items {
		fmt.Fprintf(&sb, "#%d %s\n", result.First+i, truncateString(item, maxItemLen))
	}

	return sb.String()
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Handler returns the streamable HTTP handler served by [Server.Serve].
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Serve listens on the server's address until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	server := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shut down MCP server", slog.Any("error", err))
		}
	})
	defer stop()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
