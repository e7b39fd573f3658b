// internal/model/client.go
package model

import "time"

// Client is a business account's customer as maintained by the booking sync.
// Everything except date_last_sms_sent is read-only from our side.
type Client struct {
    ID                int        `db:"id" json:"id"`
    AccountID         int        `db:"account_id" json:"account_id"`
    PhoneNormalized   string     `db:"phone_normalized" json:"phone_normalized"`
    FirstName         string     `db:"first_name" json:"first_name"`
    LastName          string     `db:"last_name" json:"last_name"`
    FirstAppt         *time.Time `db:"first_appt" json:"first_appt,omitempty"`
    LastAppt          *time.Time `db:"last_appt" json:"last_appt,omitempty"`
    TotalAppointments int        `db:"total_appointments" json:"total_appointments"`
    VisitingType      string     `db:"visiting_type" json:"visiting_type"`
    SMSSubscribed     bool       `db:"sms_subscribed" json:"sms_subscribed"`
    DateLastSMSSent   *time.Time `db:"date_last_sms_sent" json:"date_last_sms_sent,omitempty"`
}

func (c *Client) FullName() string {
    return c.FirstName + " " + c.LastName
}
