// internal/handlers/event/event_handler.go
package event

import (
	"net/http"
	"strconv"

	"eventora-service/internal/domain/event"
	"eventora-service/internal/pkg/response"
	service "eventora-service/internal/service/event"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// CreateEvent creates a new event
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req event.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.eventService.Create(c.Request.Context(), &req, false)
	if err != nil {
		response.FromError(c, "Error creating event.", err)
		return
	}

	response.Success(c, http.StatusCreated, "Event successfully created.", result)
}

// CreatePromotion creates a new promotion
func (h *EventHandler) CreatePromotion(c *gin.Context) {
	var req event.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.eventService.Create(c.Request.Context(), &req, true)
	if err != nil {
		response.FromError(c, "Error creating promotion.", err)
		return
	}

	response.Success(c, http.StatusCreated, "Promotion successfully created.", result)
}

// GetAllEvents lists events, optionally around a point (?lat=&lng=)
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" || lngStr == "" {
		result, err := h.eventService.GetAll(c.Request.Context())
		if err != nil {
			response.FromError(c, "Error getting events.", err)
			return
		}
		response.Success(c, http.StatusOK, "Events successfully fetched.", result)
		return
	}

	lat, lng, err := parseCoordinates(latStr, lngStr)
	if err != nil {
		response.ValidationError(c, "invalid coordinates", err)
		return
	}

	result, err := h.eventService.GetAllNear(c.Request.Context(), lat, lng)
	if err != nil {
		response.FromError(c, "Error getting events.", err)
		return
	}

	response.Success(c, http.StatusOK, "Events successfully fetched.", result)
}

// GetEventByID fetches a single event
func (h *EventHandler) GetEventByID(c *gin.Context) {
	result, err := h.eventService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Error getting event.", err)
		return
	}

	response.Success(c, http.StatusOK, "Event successfully fetched.", result)
}

// GetEventsByUserID lists a user's events
func (h *EventHandler) GetEventsByUserID(c *gin.Context) {
	result, err := h.eventService.GetByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.FromError(c, "Error getting events for the user.", err)
		return
	}

	if len(result) == 0 {
		response.Success(c, http.StatusOK, "No events found for this user.", result)
		return
	}

	response.Success(c, http.StatusOK, "Events successfully fetched for the user.", result)
}

// SearchNearbyEvents finds published events close to a point
func (h *EventHandler) SearchNearbyEvents(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		response.ValidationError(c, "latitude and longitude are required", nil)
		return
	}

	lat, lng, err := parseCoordinates(latStr, lngStr)
	if err != nil {
		response.ValidationError(c, "invalid coordinates", err)
		return
	}

	eventType := event.Type(c.DefaultQuery("eventType", string(event.TypePromotion)))

	result, err := h.eventService.SearchNearby(c.Request.Context(), lat, lng, eventType)
	if err != nil {
		response.FromError(c, "Error getting events.", err)
		return
	}

	response.Success(c, http.StatusOK, "Events successfully fetched.", result)
}

// UpdateEvent patches an event, recomputing promotion tiers
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req event.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.eventService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "Error updating event.", err)
		return
	}

	response.Success(c, http.StatusOK, "Event successfully updated.", result)
}

// UpdateEventByAdmin publishes an event on the optima tier
func (h *EventHandler) UpdateEventByAdmin(c *gin.Context) {
	result, err := h.eventService.UpdateByAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Error updating event.", err)
		return
	}

	response.Success(c, http.StatusOK, "Event successfully updated.", result)
}

// DeleteEvent removes an event
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	result, err := h.eventService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Error deleting event.", err)
		return
	}

	response.Success(c, http.StatusOK, "Event successfully deleted.", result)
}

func parseCoordinates(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}
