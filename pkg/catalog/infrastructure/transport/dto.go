package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalogservice/pkg/catalog/domain/model"
	domainservice "catalogservice/pkg/catalog/domain/service"
)

type purchaseRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
	ProductID  uuid.UUID `json:"productId"`
	Quantity   int       `json:"quantity"`
}

type productRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	VendorID      uuid.UUID       `json:"vendorId"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type partyRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      model.Category  `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	VendorID      uuid.UUID       `json:"vendorId"`
}

type productInfoResponse struct {
	productResponse
	CustomerCount int `json:"customerCount"`
}

type purchaseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customerId"`
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

type pageResponse struct {
	Content       []productResponse `json:"content"`
	CurrentPage   int               `json:"currentPage"`
	PageSize      int               `json:"pageSize"`
	TotalElements int               `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

type categoryStatsResponse struct {
	Category     model.Category `json:"category"`
	ProductCount int            `json:"productCount"`
}

type vendorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	ProductCount *int      `json:"productCount,omitempty"`
}

type customerResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	City string    `json:"city"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		VendorID:      p.VendorID,
	}
}

func toProductResponses(products []model.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result
}

func toPurchaseResponse(r model.PurchaseRecord) purchaseResponse {
	return purchaseResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		TotalCost:   r.TotalCost,
		PurchasedAt: r.PurchasedAt,
	}
}

func toPurchaseResponses(records []model.PurchaseRecord) []purchaseResponse {
	result := make([]purchaseResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toPurchaseResponse(r))
	}
	return result
}

func toPageResponse(page *domainservice.Page) pageResponse {
	return pageResponse{
		Content:       toProductResponses(page.Content),
		CurrentPage:   page.CurrentPage,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.IsFirstPage,
		Last:          page.IsLastPage,
	}
}

func toVendorResponse(v model.Vendor) vendorResponse {
	return vendorResponse{ID: v.ID, Name: v.Name, City: v.City}
}

func toCustomerResponse(c model.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, City: c.City}
}
