package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/retaildash/backend/internal/application/partner"
)

// ChangeEmployeeStatusRequest sets the status explicitly. An empty body toggles it.
type ChangeEmployeeStatusRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// EmployeeHandler handles employee-related API endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *partnerapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *partnerapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List godoc
// @ID          listEmployees
// @Summary     List employees
// @Description Returns a page of employees.
// @Tags        employees
// @Produce     json
// @Param       search query string false "Name, email or position contains"
// @Param       department query string false "Department"
// @Param       status query string false "Status" Enums(active, inactive)
// @Param       page query int false "Page number" minimum(1)
// @Param       page_size query int false "Page size" minimum(1) maximum(100)
// @Param       order_by query string false "Sort field"
// @Param       order_dir query string false "Sort direction" Enums(asc, desc)
// @Success     200 {object} dto.Response{data=[]partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter partnerapp.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	employees, total, err := h.employeeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// EligibleProcessors godoc
// @ID          listEligibleProcessors
// @Summary     List order processors
// @Description Returns the active Sales employees that may process orders.
// @Tags        employees
// @Produce     json
// @Success     200 {object} dto.Response{data=[]partnerapp.EmployeeResponse}
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/eligible-processors [get]
func (h *EmployeeHandler) EligibleProcessors(c *gin.Context) {
	employees, err := h.employeeService.EligibleProcessors(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employees)
}

// GetByID godoc
// @ID          getEmployeeById
// @Summary     Get employee by ID
// @Description Returns an employee by ID.
// @Tags        employees
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Success     200 {object} dto.Response{data=partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	employee, err := h.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Create godoc
// @ID          createEmployee
// @Summary     Create a new employee
// @Description Creates an active employee. The email must be unique.
// @Tags        employees
// @Accept      json
// @Produce     json
// @Param       request body partnerapp.EmployeeRequest true "Employee creation request"
// @Success     201 {object} dto.Response{data=partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req partnerapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Update godoc
// @ID          updateEmployee
// @Summary     Update an employee
// @Description Updates the contact and job fields of an employee.
// @Tags        employees
// @Accept      json
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Param       request body partnerapp.EmployeeRequest true "Employee update request"
// @Success     200 {object} dto.Response{data=partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	var req partnerapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// ChangeStatus godoc
// @ID          changeEmployeeStatus
// @Summary     Change employee status
// @Description Sets the status, or toggles it when the body is empty. A failed write returns the restored employee in data.
// @Tags        employees
// @Accept      json
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Param       request body ChangeEmployeeStatusRequest false "Target status"
// @Success     200 {object} dto.Response{data=partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id}/status [patch]
func (h *EmployeeHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	var req ChangeEmployeeStatusRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.ChangeStatus(c.Request.Context(), id, req.Status)
	var changeErr *partnerapp.StatusChangeError
	if errors.As(err, &changeErr) {
		h.HandleErrorWithData(c, err, changeErr.Employee)
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @ID          deleteEmployee
// @Summary     Delete an employee
// @Description Deletes an employee that processed no orders.
// @Tags        employees
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Success     204
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RequestProfileImageUpload godoc
// @ID          requestProfileImageUpload
// @Summary     Request a profile image upload
// @Description Returns a presigned URL the client uploads the image to.
// @Tags        employees
// @Accept      json
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Param       request body partnerapp.ProfileImageUploadRequest true "Image file"
// @Success     200 {object} dto.Response{data=partnerapp.ProfileImageUploadResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id}/profile-image [post]
func (h *EmployeeHandler) RequestProfileImageUpload(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	var req partnerapp.ProfileImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.employeeService.RequestProfileImageUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ConfirmProfileImage godoc
// @ID          confirmProfileImage
// @Summary     Confirm a profile image upload
// @Description Attaches an uploaded image to the employee.
// @Tags        employees
// @Accept      json
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Param       request body partnerapp.ConfirmProfileImageRequest true "Uploaded object"
// @Success     200 {object} dto.Response{data=partnerapp.EmployeeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id}/profile-image/confirm [post]
func (h *EmployeeHandler) ConfirmProfileImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	var req partnerapp.ConfirmProfileImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.ConfirmProfileImage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// ProfileImage godoc
// @ID          getProfileImage
// @Summary     Get the profile image URL
// @Description Returns a presigned download URL for the profile image.
// @Tags        employees
// @Produce     json
// @Param       id path string true "Employee ID" format(uuid)
// @Success     200 {object} dto.Response{data=partnerapp.ProfileImageResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /employees/{id}/profile-image [get]
func (h *EmployeeHandler) ProfileImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "employee")
	if !ok {
		return
	}
	image, err := h.employeeService.ProfileImage(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, image)
}
