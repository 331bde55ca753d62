package models

import "time"

type Table struct {
	ID         string `json:"id"`
	Number     int    `json:"number"`
	Restaurant string `json:"restaurant"`
	Capacity   int    `json:"capacity"`
	Status     string `json:"status"`
}

const (
	ServiceRequestWaiter = "call_waiter"
	ServiceRequestBill   = "request_bill"
	ServiceRequestWater  = "water"
)

type ServiceRequest struct {
	ID         string    `json:"id,omitempty"`
	Restaurant string    `json:"restaurant"`
	Table      string    `json:"table"`
	Type       string    `json:"type" binding:"required,oneof=call_waiter request_bill water"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type Review struct {
	ID         string `json:"id,omitempty"`
	Restaurant string `json:"restaurant" binding:"required"`
	Order      string `json:"order"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
	Customer   string `json:"customerName"`
}
