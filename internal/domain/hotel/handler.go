package hotel

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"umrahstay/internal/pkg/response"
	"umrahstay/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles GET /api/hotels
// @Summary Search hotels
// @Description Filters by destination, price, distance and featured flag, then by stay dates and guests
// @Tags Hotels
// @Produce json
// @Param destination query string false "Substring of the location"
// @Param minPrice query number false "Lowest starting price"
// @Param maxPrice query number false "Highest starting price"
// @Param maxDistance query int false "Metres to the nearest mosque"
// @Param featured query bool false "Featured hotels only"
// @Param sort query string false "rating, price_asc or price_desc"
// @Param checkIn query string false "YYYY-MM-DD"
// @Param checkOut query string false "YYYY-MM-DD"
// @Param adults query int false "Adults"
// @Param children query int false "Children"
// @Param rooms query int false "Rooms"
// @Success 200 {array} domain.Hotel
// @Failure 400 {object} map[string]interface{} "Invalid query"
// @Router /hotels [get]
func (h *Handler) Search(c *gin.Context) {
	params, err := ParseSearchParams(c.Request.URL.Query())
	if err != nil {
		h.fail(c, err)
		return
	}

	hotels, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hotels)
}

// Get handles GET /api/hotels/:id
// @Summary Get hotel
// @Description Returns the hotel with each room annotated for the given stay
// @Tags Hotels
// @Produce json
// @Param id path int true "Hotel ID"
// @Param checkIn query string false "YYYY-MM-DD"
// @Param checkOut query string false "YYYY-MM-DD"
// @Param adults query int false "Adults"
// @Success 200 {object} domain.Hotel
// @Failure 404 {object} map[string]interface{} "Hotel not found"
// @Router /hotels/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	q, err := ParseAvailabilityQuery(c.Request.URL.Query())
	if err != nil {
		h.fail(c, err)
		return
	}

	hotel, err := h.service.Get(c.Request.Context(), id, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hotel)
}

// Create handles POST /api/hotels
// @Summary Create hotel
// @Tags Hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body HotelRequest true "Hotel with rooms"
// @Success 201 {object} domain.Hotel
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 403 {object} map[string]interface{} "Admin role required"
// @Router /hotels [post]
func (h *Handler) Create(c *gin.Context) {
	req, ok := bindHotel(c)
	if !ok {
		return
	}

	hotel, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, hotel)
}

// Update handles PUT /api/hotels/:id
// @Summary Replace hotel
// @Description Rooms with an id are updated, new rooms are added, and omitted rooms are removed
// @Tags Hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hotel ID"
// @Param request body HotelRequest true "Hotel with rooms"
// @Success 200 {object} domain.Hotel
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Hotel not found"
// @Router /hotels/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindHotel(c)
	if !ok {
		return
	}

	hotel, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hotel)
}

// Delete handles DELETE /api/hotels/:id
// @Summary Delete hotel
// @Tags Hotels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hotel ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Hotel not found"
// @Router /hotels/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// ListAmenities handles GET /api/amenities
// @Summary List amenities
// @Tags Hotels
// @Produce json
// @Success 200 {array} domain.Amenity
// @Router /amenities [get]
func (h *Handler) ListAmenities(c *gin.Context) {
	amenities, err := h.service.ListAmenities(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, amenities)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hotel not found")
	default:
		response.Internal(c, err)
	}
}

func bindHotel(c *gin.Context) (HotelRequest, bool) {
	var req HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return req, false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid hotel", errs)
		return req, false
	}
	return req, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hotel ID")
		return 0, false
	}
	return id, true
}
