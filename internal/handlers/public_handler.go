package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/studio-scheduler/internal/usecase/booking"
	ucCatalog "github.com/BruksfildServices01/studio-scheduler/internal/usecase/catalog"
	ucCourse "github.com/BruksfildServices01/studio-scheduler/internal/usecase/course"
	ucPayment "github.com/BruksfildServices01/studio-scheduler/internal/usecase/payment"
	"github.com/BruksfildServices01/studio-scheduler/internal/validators"
)

const HeaderIdempotencyKey = "Idempotency-Key"

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	studio          *ucCatalog.GetStudioPublic
	availability    *ucCourse.GetServiceAvailability
	checkCourse     *ucCourse.CheckCourseAvailability
	purchase        *ucCourse.CreateCourseOrder
	bookSlot        *ucBooking.CreateSingleBooking
	orderCheckout   *ucPayment.CreateOrderCheckout
	bookingCheckout *ucPayment.CreateBookingCheckout
}

func NewPublicHandler(
	studio *ucCatalog.GetStudioPublic,
	availability *ucCourse.GetServiceAvailability,
	checkCourse *ucCourse.CheckCourseAvailability,
	purchase *ucCourse.CreateCourseOrder,
	bookSlot *ucBooking.CreateSingleBooking,
	orderCheckout *ucPayment.CreateOrderCheckout,
	bookingCheckout *ucPayment.CreateBookingCheckout,
) *PublicHandler {
	return &PublicHandler{
		studio:          studio,
		availability:    availability,
		checkCourse:     checkCourse,
		purchase:        purchase,
		bookSlot:        bookSlot,
		orderCheckout:   orderCheckout,
		bookingCheckout: bookingCheckout,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

// PurchaserRequest identifies an anonymous buyer. Signed-in callers may send
// an empty body.
type PurchaserRequest struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
}

func bindPurchaser(c *gin.Context) (PurchaserRequest, bool) {
	var req PurchaserRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return req, false
	}
	if req.GuestEmail != "" {
		email, ok := validators.NormalizeEmail(req.GuestEmail)
		if !ok {
			httperr.BadRequest(c, "invalid_guest_email", "guest_email is malformed")
			return req, false
		}
		req.GuestEmail = email
	}
	return req, true
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) Studio(c *gin.Context) {
	studioID, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.studio.Execute(c.Request.Context(), studioID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *PublicHandler) Availability(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	from, err := optionalDate(c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "from must be YYYY-MM-DD")
		return
	}

	view, err := h.availability.Execute(c.Request.Context(), ucCourse.GetServiceAvailabilityInput{
		ServiceID: serviceID,
		From:      from,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, view)
}

// CourseAvailability is an advisory pre-check. The purchase re-evaluates the
// decision under lock.
func (h *PublicHandler) CourseAvailability(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	decision, err := h.checkCourse.Execute(c.Request.Context(), serviceID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, decision)
}

////////////////////////////////////////////////////////
// PURCHASE
////////////////////////////////////////////////////////

func (h *PublicHandler) PurchaseCourse(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	req, ok := bindPurchaser(c)
	if !ok {
		return
	}

	res, err := h.purchase.Execute(c.Request.Context(), ucCourse.CreateCourseOrderInput{
		ServiceID:      serviceID,
		UserID:         middleware.UserID(c),
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		GuestPhone:     req.GuestPhone,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"order":        res.Order,
		"bookings":     res.Bookings,
		"availability": res.Availability,
		"replayed":     res.Replayed,
	})
}

func (h *PublicHandler) BookSlot(c *gin.Context) {
	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	req, ok := bindPurchaser(c)
	if !ok {
		return
	}

	b, err := h.bookSlot.Execute(c.Request.Context(), ucBooking.CreateSingleBookingInput{
		SlotID:     slotID,
		UserID:     middleware.UserID(c),
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, b)
}

////////////////////////////////////////////////////////
// CHECKOUT
////////////////////////////////////////////////////////

func (h *PublicHandler) OrderCheckout(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := h.orderCheckout.Execute(c.Request.Context(), orderID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	})
}

func (h *PublicHandler) BookingCheckout(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := h.bookingCheckout.Execute(c.Request.Context(), bookingID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	})
}
