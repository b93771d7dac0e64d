package models

// Booking is an ad-hoc room reservation, independent of the timetable grids.
// Period is a zero-based index into the master timetable periods.
type Booking struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	TeacherID string `json:"teacherId"`
	Date      string `json:"date"`
	Period    int    `json:"period"`
	Purpose   string `json:"purpose"`
}

// BookingRequest is the payload accepted when creating a booking.
type BookingRequest struct {
	RoomID    string `json:"roomId" binding:"required"`
	TeacherID string `json:"teacherId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Period    *int   `json:"period" binding:"required"`
	Purpose   string `json:"purpose"`
}

// RoomAvailability pairs a room with its free/busy state for a query window.
type RoomAvailability struct {
	Room      Room   `json:"room"`
	Available bool   `json:"available"`
	BookedBy  string `json:"bookedBy,omitempty"`
}
