package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
	"github.com/vango-dev/urlkit/pkg/middleware"
	"github.com/vango-dev/urlkit/pkg/searchparams"
	"github.com/vango-dev/urlkit/pkg/urlgrammar"
	"github.com/vango-dev/urlkit/pkg/weburl"
)

type parseRequest struct {
	Input string `json:"input"`
	Base  string `json:"base,omitempty"`
}

type resolveRequest struct {
	Base     string `json:"base"`
	Relative string `json:"relative"`
}

type paramsRequest struct {
	Query  string `json:"query"`
	Sort   bool   `json:"sort,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// urlResponse is the JSON form of a URL value.
type urlResponse struct {
	Kind         string      `json:"kind,omitempty"`
	Href         string      `json:"href"`
	Origin       string      `json:"origin"`
	Protocol     string      `json:"protocol"`
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Host         string      `json:"host"`
	Hostname     string      `json:"hostname"`
	Port         string      `json:"port"`
	Pathname     string      `json:"pathname"`
	Search       string      `json:"search"`
	Hash         string      `json:"hash"`
	SearchParams [][2]string `json:"search_params"`
}

type paramsResponse struct {
	Entries    [][2]string `json:"entries"`
	Serialized string      `json:"serialized"`
	Size       int         `json:"size"`
}

func newURLResponse(kind urlgrammar.Kind, u *weburl.URL) urlResponse {
	return urlResponse{
		Kind:         kind.String(),
		Href:         u.Href(),
		Origin:       u.Origin(),
		Protocol:     u.Protocol(),
		Username:     u.Username(),
		Password:     u.Password(),
		Host:         u.Host(),
		Hostname:     u.Hostname(),
		Port:         u.Port(),
		Pathname:     u.Pathname(),
		Search:       u.Search(),
		Hash:         u.Hash(),
		SearchParams: pairs(u.SearchParams()),
	}
}

func pairs(p *searchparams.Params) [][2]string {
	out := make([][2]string, 0, p.Size())
	for k, v := range p.All() {
		out = append(out, [2]string{k, v})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	parsed, err := urlgrammar.Parse(req.Input)
	if err != nil {
		middleware.RecordParse(urlgrammar.KindInvalid.String(), false)
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	annotate(r, attribute.String("urlkit.kind", parsed.Kind.String()))

	base := req.Base
	if base == "" {
		base = s.config.DefaultBase
	}
	var u *weburl.URL
	if base != "" {
		u, err = weburl.NewWithBase(req.Input, base)
	} else {
		u, err = weburl.New(req.Input)
	}
	middleware.RecordParse(parsed.Kind.String(), err == nil)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newURLResponse(parsed.Kind, u))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	base := req.Base
	if base == "" {
		base = s.config.DefaultBase
	}
	if base == "" {
		s.writeError(w, http.StatusUnprocessableEntity,
			kerrors.New(kerrors.CodeInvalidURL).WithDetail("base is required"))
		return
	}

	parsed, err := urlgrammar.Parse(req.Relative)
	if err != nil {
		middleware.RecordParse(urlgrammar.KindInvalid.String(), false)
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	u, err := weburl.NewWithBase(req.Relative, base)
	middleware.RecordParse(parsed.Kind.String(), err == nil)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newURLResponse(parsed.Kind, u))
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var req paramsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := searchparams.New(req.Query)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	middleware.RecordSearchParams(p.Size())

	if req.Sort {
		if req.Locale != "" {
			tag, err := language.Parse(req.Locale)
			if err != nil {
				s.writeError(w, http.StatusBadRequest,
					kerrors.New(kerrors.CodeBadRequest).WithDetail("unknown locale").WithInput(req.Locale))
				return
			}
			p.SortCollated(tag)
		} else {
			p.Sort()
		}
	}

	s.writeJSON(w, http.StatusOK, paramsResponse{
		Entries:    pairs(p),
		Serialized: p.String(),
		Size:       p.Size(),
	})
}

func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	u, err := weburl.New(requestURL(r, s.trustedProxies))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newURLResponse(urlgrammar.KindAbsolute, u))
}

// decode reads a single JSON object from the request body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return kerrors.New(kerrors.CodeBadRequest).WithDetail("unsupported content type " + ct)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return kerrors.New(kerrors.CodeBadRequest).WithDetail("body too large")
		}
		return kerrors.New(kerrors.CodeBadRequest).WithDetail(err.Error())
	}
	if dec.More() {
		return kerrors.New(kerrors.CodeBadRequest).WithDetail("body must contain a single JSON object")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	ke := kerrors.FromError(err, kerrors.CodeBadRequest)
	middleware.RecordError(ke.Code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(`{"error":` + ke.FormatJSON() + "}\n")); err != nil {
		s.logger.Debug("write error response failed", "code", ke.Code, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response failed", "status", status, "error", err)
	}
}

// annotate adds attributes to the request span, if the request is traced.
func annotate(r *http.Request, attrs ...attribute.KeyValue) {
	if span := middleware.SpanFromContext(r.Context()); span != nil {
		span.SetAttributes(attrs...)
	}
}
