package requests

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED COMPLETED CANCELLED"`
	Notes  string `json:"notes,omitempty" validate:"max=500"`
}

type ScheduleBookingRequest struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduled_time" validate:"required,datetime=15:04"`
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}
