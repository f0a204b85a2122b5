package clinic

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)

	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.POST("/doctors", h.CreateDoctor)

	api.GET("/visits", h.ListVisits)
	api.POST("/visits", h.CreateVisit)

	api.GET("/medicines", h.ListMedicines)
	api.GET("/medicines/:id", h.GetMedicine)
	api.POST("/medicines", h.CreateMedicine)

	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:id", h.GetRoom)
	api.POST("/rooms", h.CreateRoom)
	api.PATCH("/rooms/:id/status", h.UpdateRoomStatus)

	api.GET("/statistics", h.GetStatistics)
}

// Health reports liveness with the current collection sizes.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"counts": h.svc.Counts(),
	})
}

// -- Patients --

func (h *Handler) CreatePatient(c echo.Context) error {
	var in PatientInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	p := h.svc.CreatePatient(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	return respondList(c, h.svc.ListPatients(c.QueryParam("q")))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, ok := h.svc.GetPatient(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

// -- Doctors --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var in DoctorInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	d := h.svc.CreateDoctor(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	return respondList(c, h.svc.ListDoctors(c.QueryParam("q")))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, ok := h.svc.GetDoctor(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

// -- Visits --

func (h *Handler) CreateVisit(c echo.Context) error {
	var in VisitInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	v := h.svc.CreateVisit(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	return respondList(c, h.svc.ListVisits(c.QueryParam("q")))
}

// -- Medicines --

func (h *Handler) CreateMedicine(c echo.Context) error {
	var in MedicineInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	m := h.svc.CreateMedicine(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	return respondList(c, h.svc.ListMedicines(c.QueryParam("q")))
}

func (h *Handler) GetMedicine(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, ok := h.svc.GetMedicine(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, m)
}

// -- Rooms --

func (h *Handler) CreateRoom(c echo.Context) error {
	var in RoomInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	r := h.svc.CreateRoom(c.Request().Context(), in)
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ListRooms(c echo.Context) error {
	return respondList(c, h.svc.ListRooms(c.QueryParam("q")))
}

func (h *Handler) GetRoom(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	r, ok := h.svc.GetRoom(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "room not found")
	}
	return c.JSON(http.StatusOK, r)
}

type roomStatusRequest struct {
	Status RoomStatus `json:"status"`
}

// UpdateRoomStatus always answers with the room snapshot. An id with no room
// behind it leaves the snapshot unchanged.
func (h *Handler) UpdateRoomStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req roomStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status: "+string(req.Status))
	}
	rooms := h.svc.UpdateRoomStatus(c.Request().Context(), id, req.Status)
	return c.JSON(http.StatusOK, nonNil(rooms))
}

// -- Statistics --

func (h *Handler) GetStatistics(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = h.now().UTC().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return c.JSON(http.StatusOK, h.svc.Statistics(date))
}

// -- helpers --

type validator interface {
	Validate() error
}

func bindValid(c echo.Context, in validator) error {
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := in.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// respondList writes a search result. An empty result is rendered as [].
func respondList[T any](c echo.Context, items []T) error {
	return c.JSON(http.StatusOK, nonNil(items))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
