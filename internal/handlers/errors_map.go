package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/BlazingTwister/finalflow/internal/errors"
	"github.com/BlazingTwister/finalflow/internal/services"
)

// respondServiceError translates service sentinels into the error taxonomy:
// validation failures, state conflicts, forbidden actions and missing
// entities each map to their own response kind.
func respondServiceError(c *gin.Context, err error) {
	switch {
	// Validation
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrTaskDueDateRequired),
		errors.Is(err, services.ErrSubtaskTitleRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidSubtaskStatus),
		errors.Is(err, services.ErrSlotNameRequired),
		errors.Is(err, services.ErrSlotDueDateRequired),
		errors.Is(err, services.ErrSlotDueDatePast),
		errors.Is(err, services.ErrSlotDueDatePastOpen),
		errors.Is(err, services.ErrInvalidSlotStatus),
		errors.Is(err, services.ErrNoStudentsSpecified),
		errors.Is(err, services.ErrNoFiles),
		errors.Is(err, services.ErrTooManyFiles),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrFileTypeNotAllowed),
		errors.Is(err, services.ErrCommentRequired),
		errors.Is(err, services.ErrCommentTooLong):
		apierrors.BadRequest(c, err.Error())

	// State conflicts
	case errors.Is(err, services.ErrTaskCompleted),
		errors.Is(err, services.ErrSlotInactive),
		errors.Is(err, services.ErrAlreadySubmitted):
		apierrors.Conflict(c, err.Error())

	// Forbidden
	case errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrSlotNotAccepting),
		errors.Is(err, services.ErrNotAcknowledged),
		errors.Is(err, services.ErrNoEligibleStudents):
		apierrors.Forbidden(c, err.Error())

	// Not found (including entities that belong to someone else)
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubtaskNotFound),
		errors.Is(err, services.ErrSlotNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrFileNotFound):
		apierrors.NotFound(c, err.Error())

	default:
		apierrors.InternalError(c, "")
	}
}
