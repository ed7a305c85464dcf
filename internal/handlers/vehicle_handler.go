package handlers

import (
	"net/http"

	"gorent/internal/services"
	"gorent/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// ListVehicles returns the rentable catalog. The public listing only shows
// available vehicles; admins see everything with pagination and search.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	if vehicleType := c.Query("type"); vehicleType != "" {
		params := utils.GetPaginationParams(c)
		vehicles, total, err := h.vehicleService.ListVehiclesByType(c.Request.Context(), vehicleType, params)
		if err != nil {
			utils.InternalServerErrorResponse(c)
			return
		}
		utils.SuccessResponseWithMeta(c, "", vehicles, &utils.Meta{
			Pagination: utils.CreatePaginationMeta(params, total),
		})
		return
	}

	vehicles, err := h.vehicleService.ListAvailableVehicles(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", vehicles)
}

// ListAllVehicles is the admin catalog view, including unavailable vehicles.
func (h *VehicleHandler) ListAllVehicles(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	vehicles, total, err := h.vehicleService.ListVehicles(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "", vehicles, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetVehicle returns one vehicle by id.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		utils.NotFoundResponse(c, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "", vehicle)
}

// CreateVehicle adds a vehicle to the catalog.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var request services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "VEHICLE_CREATE_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

// UpdateVehicle applies a partial update to a vehicle.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	// Never let a catalog edit rewrite identity or audit fields.
	for _, field := range []string{"_id", "created_at", "updated_at"} {
		delete(updates, field)
	}
	if len(updates) == 0 {
		utils.BadRequestResponse(c, "No updatable fields provided")
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), id, updates)
	if err != nil {
		utils.NotFoundResponse(c, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

// DeleteVehicle removes a vehicle from the catalog.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), id); err != nil {
		utils.NotFoundResponse(c, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}

// SetAvailability flips whether a vehicle can be booked.
func (h *VehicleHandler) SetAvailability(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Available bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.vehicleService.SetAvailability(c.Request.Context(), id, request.Available); err != nil {
		utils.NotFoundResponse(c, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle availability updated", gin.H{"available": request.Available})
}

// UploadImage accepts a multipart image, stores a resized copy and points
// the vehicle at the new URL.
func (h *VehicleHandler) UploadImage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}
	defer file.Close()

	url, err := h.vehicleService.UploadVehicleImage(c.Request.Context(), id, header.Filename, file, header.Size)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "IMAGE_UPLOAD_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Image uploaded successfully", gin.H{"image": url})
}

// pathObjectID parses an ObjectID path parameter, responding 400 on failure.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
