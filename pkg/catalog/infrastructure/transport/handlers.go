package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	appservice "catalogservice/pkg/catalog/application/service"
	"catalogservice/pkg/catalog/domain/model"
	domainservice "catalogservice/pkg/catalog/domain/service"
)

const (
	defaultPage     = 0
	defaultPageSize = 10
)

type Handler struct {
	purchases    domainservice.PurchaseService
	queries      domainservice.QueryService
	aggregations domainservice.AggregationService
	catalog      appservice.CatalogService
}

func Router(
	purchases domainservice.PurchaseService,
	queries domainservice.QueryService,
	aggregations domainservice.AggregationService,
	catalog appservice.CatalogService,
) http.Handler {
	h := &Handler{
		purchases:    purchases,
		queries:      queries,
		aggregations: aggregations,
		catalog:      catalog,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/purchases", h.purchase).Methods(http.MethodPost)
	s.HandleFunc("/purchases/customer/{ID}", h.purchasesByCustomer).Methods(http.MethodGet)
	s.HandleFunc("/purchases/product/{ID}", h.purchasesByProduct).Methods(http.MethodGet)

	s.HandleFunc("/products/filter", h.filterByCategory).Methods(http.MethodGet)
	s.HandleFunc("/products/sort", h.sortByPrice).Methods(http.MethodGet)
	s.HandleFunc("/products/price-range", h.byPriceRange).Methods(http.MethodGet)
	s.HandleFunc("/products/category-stats", h.categoryStatistics).Methods(http.MethodGet)
	s.HandleFunc("/products/info-with-customer-count", h.productsWithCustomerCount).Methods(http.MethodGet)
	s.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{ID}", h.findProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{ID}", h.replaceProduct).Methods(http.MethodPut)
	s.HandleFunc("/products/{ID}/restock", h.restockProduct).Methods(http.MethodPost)

	s.HandleFunc("/vendors", h.listVendors).Methods(http.MethodGet)
	s.HandleFunc("/vendors", h.createVendor).Methods(http.MethodPost)
	s.HandleFunc("/vendors/with-product-count", h.vendorsWithProductCount).Methods(http.MethodGet)
	s.HandleFunc("/vendors/city/{city}", h.vendorsByCity).Methods(http.MethodGet)
	s.HandleFunc("/vendors/{ID}", h.findVendor).Methods(http.MethodGet)
	s.HandleFunc("/vendors/{ID}/products", h.productsByVendor).Methods(http.MethodGet)

	s.HandleFunc("/customers", h.createCustomer).Methods(http.MethodPost)
	s.HandleFunc("/customers/city/{city}", h.customersByCity).Methods(http.MethodGet)

	return logMiddleware(r)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	var request purchaseRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.purchases.Purchase(r.Context(), request.CustomerID, request.ProductID, request.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(*record))
}

func (h *Handler) purchasesByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.purchases.PurchasesByCustomer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponses(records))
}

func (h *Handler) purchasesByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.purchases.PurchasesByProduct(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponses(records))
}

func (h *Handler) filterByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := model.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	products, err := h.queries.FilterByCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) sortByPrice(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	direction := domainservice.Ascending
	if raw := query.Get("direction"); raw != "" {
		var err error
		direction, err = domainservice.ParseSortDirection(raw)
		if err != nil {
			writeError(w, errors.WithMessagef(err, "direction %q", raw))
			return
		}
	}
	page, err := queryInt(query.Get("page"), defaultPage)
	if err != nil {
		writeError(w, err)
		return
	}
	size, err := queryInt(query.Get("size"), defaultPageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.queries.SortByPrice(r.Context(), direction, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *Handler) byPriceRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lower, err := queryDecimal(query.Get("min"))
	if err != nil {
		writeError(w, err)
		return
	}
	upper, err := queryDecimal(query.Get("max"))
	if err != nil {
		writeError(w, err)
		return
	}

	products, err := h.queries.ByPriceRange(r.Context(), lower, upper)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) categoryStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.aggregations.CategoryStatistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]categoryStatsResponse, 0, len(stats))
	for _, s := range stats {
		response = append(response, categoryStatsResponse{Category: s.Category, ProductCount: s.Count})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) productsWithCustomerCount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.aggregations.ProductsWithCustomerCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]productInfoResponse, 0, len(counts))
	for _, c := range counts {
		response = append(response, productInfoResponse{
			productResponse: toProductResponse(c.Product),
			CustomerCount:   c.CustomerCount,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	input, err := decodeProductInput(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*product))
}

func (h *Handler) findProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.catalog.FindProduct(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*product))
}

func (h *Handler) replaceProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := decodeProductInput(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.catalog.ReplaceProduct(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*product))
}

func (h *Handler) restockProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var request restockRequest
	if err = decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.catalog.RestockProduct(r.Context(), id, request.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*product))
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var request partyRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}

	vendor, err := h.catalog.CreateVendor(r.Context(), request.Name, request.City)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVendorResponse(*vendor))
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalog.ListVendors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]vendorResponse, 0, len(vendors))
	for _, v := range vendors {
		response = append(response, toVendorResponse(v))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) findVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vendor, err := h.catalog.FindVendor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVendorResponse(*vendor))
}

func (h *Handler) vendorsWithProductCount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.aggregations.VendorsWithProductCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]vendorResponse, 0, len(counts))
	for _, c := range counts {
		v := toVendorResponse(c.Vendor)
		count := c.ProductCount
		v.ProductCount = &count
		response = append(response, v)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) vendorsByCity(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalog.VendorsByCity(r.Context(), mux.Vars(r)["city"])
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]vendorResponse, 0, len(vendors))
	for _, v := range vendors {
		response = append(response, toVendorResponse(v))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) productsByVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	products, err := h.queries.ProductsByVendor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var request partyRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.catalog.CreateCustomer(r.Context(), request.Name, request.City)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(*customer))
}

func (h *Handler) customersByCity(w http.ResponseWriter, r *http.Request) {
	customers, err := h.catalog.CustomersByCity(r.Context(), mux.Vars(r)["city"])
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		response = append(response, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}

func decodeProductInput(r *http.Request) (appservice.ProductInput, error) {
	var request productRequest
	if err := decodeBody(r, &request); err != nil {
		return appservice.ProductInput{}, err
	}
	category, err := model.ParseCategory(request.Category)
	if err != nil {
		return appservice.ProductInput{}, err
	}
	return appservice.ProductInput{
		Title:         request.Title,
		Description:   request.Description,
		Category:      category,
		Price:         request.Price,
		StockQuantity: request.StockQuantity,
		VendorID:      request.VendorID,
	}, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.WithMessage(model.ErrInvalidArgument, "malformed request body: "+err.Error())
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["ID"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.WithMessagef(model.ErrInvalidArgument, "id %q", raw)
	}
	return id, nil
}

func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WithMessagef(model.ErrInvalidArgument, "integer %q", raw)
	}
	return v, nil
}

func queryDecimal(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.WithMessagef(model.ErrInvalidArgument, "decimal %q", raw)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	response := errorResponse{Error: err.Error()}

	var stockErr *model.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		status = http.StatusConflict
		available := stockErr.Available
		response.Available = &available
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidArgument):
		status = http.StatusBadRequest
	default:
		log.WithError(err).Error("request failed")
		response.Error = http.StatusText(status)
	}

	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
