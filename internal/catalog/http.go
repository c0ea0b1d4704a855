package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"Warehouse/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Directory  *Directory
	Categories *CategoryRegistry
	Log        *zap.Logger
	Metrics    *Metrics
	Limiter    *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/warehouses", func(wr chi.Router) {
		wr.Get("/", s.listWarehouses)

		wr.Route("/{name}", func(one chi.Router) {
			one.With(s.limitWrites).Post("/", s.openWarehouse)
			one.Get("/", s.getWarehouse)

			one.Get("/products", s.listProducts)
			one.With(s.limitWrites).Post("/products", s.addProduct)
			one.Get("/products/{id}", s.getProduct)
			one.With(s.limitWrites).Put("/products/{id}/price", s.updatePrice)

			one.Get("/changes", s.listChanges)
			one.Get("/categories", s.groupByCategory)
			one.Get("/categories/{category}/products", s.listByCategory)
		})
	})

	return r
}

type productResp struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
}

type warehouseResp struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
	Empty    bool   `json:"empty"`
}

type addProductReq struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Price    decimal.NullDecimal `json:"price"`
}

type updatePriceReq struct {
	Price decimal.NullDecimal `json:"price"`
}

var (
	errBadID         = errors.New("bad product id")
	errPriceRequired = errors.New("price required")
	errNegativePrice = errors.New("price must not be negative")
)

func (s *Server) limitWrites(next http.Handler) http.Handler {
	if s.Limiter == nil {
		return next
	}
	return s.Limiter.Middleware(next)
}

func (s *Server) listWarehouses(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Directory.Names())
}

func (s *Server) openWarehouse(w http.ResponseWriter, r *http.Request) {
	wh := s.Directory.OpenNamed(chi.URLParam(r, "name"))
	s.Metrics.observeSize(wh)

	if s.Log != nil {
		s.Log.Info("warehouse opened", zap.String("warehouse", wh.Name()))
	}
	kit.WriteJSON(w, http.StatusCreated, toWarehouseResp(wh))
}

func (s *Server) getWarehouse(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, toWarehouseResp(wh))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, toProductResps(wh.Products()))
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}

	var req addProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	id, err := parseOptionalID(req.ID)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"id": req.ID})
		return
	}
	if req.Price.Valid && req.Price.Decimal.IsNegative() {
		kit.WriteError(w, r, http.StatusBadRequest, errNegativePrice.Error(), nil)
		return
	}

	category, err := s.Categories.Intern(strings.TrimSpace(req.Category))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	p, err := wh.AddProduct(id, strings.TrimSpace(req.Name), category, req.Price)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	s.Metrics.productAdded(wh)

	kit.WriteJSON(w, http.StatusCreated, toProductResp(p))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, errBadID.Error(), map[string]any{"id": rawID})
		return
	}

	p, found := wh.ProductByID(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": rawID})
		return
	}
	kit.WriteJSON(w, http.StatusOK, toProductResp(p))
}

func (s *Server) updatePrice(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}

	rawID := chi.URLParam(r, "id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, errBadID.Error(), map[string]any{"id": rawID})
		return
	}

	var req updatePriceReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if !req.Price.Valid {
		kit.WriteError(w, r, http.StatusBadRequest, errPriceRequired.Error(), nil)
		return
	}
	if req.Price.Decimal.IsNegative() {
		kit.WriteError(w, r, http.StatusBadRequest, errNegativePrice.Error(), nil)
		return
	}

	if err := wh.UpdateProductPrice(id, req.Price.Decimal); err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	s.Metrics.priceUpdated(wh)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listChanges(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, toProductResps(wh.ChangedProducts()))
}

func (s *Server) groupByCategory(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}

	groups := wh.ProductsGroupedByCategory()
	out := make(map[string][]productResp, len(groups))
	for c, ps := range groups {
		out[c.Key()] = toProductResps(ps)
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) listByCategory(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.warehouse(w, r)
	if !ok {
		return
	}

	// Reads must not grow the registry, so unknown categories are not interned.
	c, found := s.Categories.Lookup(chi.URLParam(r, "category"))
	if !found {
		kit.WriteJSON(w, http.StatusOK, []productResp{})
		return
	}
	kit.WriteJSON(w, http.StatusOK, toProductResps(wh.ProductsBy(c)))
}

func (s *Server) warehouse(w http.ResponseWriter, r *http.Request) (*Warehouse, bool) {
	name := chi.URLParam(r, "name")
	wh, ok := s.Directory.Lookup(name)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "warehouse not found", map[string]any{"name": name})
		return nil, false
	}
	return wh, true
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrDuplicateIdentity):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	default:
		if s.Log != nil {
			s.Log.Error("catalog operation failed", zap.Error(err), zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

func parseOptionalID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

func toWarehouseResp(wh *Warehouse) warehouseResp {
	n := wh.Len()
	return warehouseResp{Name: wh.Name(), Products: n, Empty: n == 0}
}

func toProductResp(p ProductRecord) productResp {
	return productResp{
		ID:           p.ID().String(),
		Name:         p.Name(),
		Category:     p.Category().Key(),
		CategoryName: p.Category().Name(),
		Price:        p.Price(),
	}
}

func toProductResps(ps []ProductRecord) []productResp {
	out := make([]productResp, len(ps))
	for i, p := range ps {
		out[i] = toProductResp(p)
	}
	return out
}
