package gateway

import (
	"encoding/json"
	"strings"
)

// Event is one verified provider notification. Data holds exactly one of the
// known variants, or *UnknownEvent for types this service does not handle.
type Event struct {
	ID   string
	Type string
	Data EventData
}

type EventData interface {
	isEventData()
}

type CheckoutSessionCompleted struct {
	Session SessionObject
}

type PaymentSucceeded struct {
	Intent PaymentIntentObject
}

type PaymentFailed struct {
	Intent PaymentIntentObject
}

type CustomerCreated struct {
	Customer CustomerObject
}

type UnknownEvent struct{}

func (*CheckoutSessionCompleted) isEventData() {}
func (*PaymentSucceeded) isEventData()         {}
func (*PaymentFailed) isEventData()            {}
func (*CustomerCreated) isEventData()          {}
func (*UnknownEvent) isEventData()             {}

type SessionObject struct {
	ID            string
	CustomerID    string
	CustomerEmail string
	PaymentIntent string
	AmountTotal   int64
	Currency      string
	PaymentStatus string
	Metadata      map[string]string
}

type PaymentIntentObject struct {
	ID            string
	Amount        int64
	Currency      string
	ReceiptEmail  string
	FailureReason string
	Metadata      map[string]string
}

type CustomerObject struct {
	ID       string
	Email    string
	Name     string
	Metadata map[string]string
}

func parseEvent(payload []byte) (*Event, error) {
	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}

	event := &Event{
		ID:   strings.TrimSpace(envelope.ID),
		Type: strings.TrimSpace(envelope.Type),
	}

	switch event.Type {
	case "checkout.session.completed":
		session, err := parseSessionObject(envelope.Data.Object)
		if err != nil {
			return nil, err
		}
		event.Data = &CheckoutSessionCompleted{Session: *session}
	case "payment_intent.succeeded":
		intent, err := parsePaymentIntentObject(envelope.Data.Object)
		if err != nil {
			return nil, err
		}
		event.Data = &PaymentSucceeded{Intent: *intent}
	case "payment_intent.payment_failed":
		intent, err := parsePaymentIntentObject(envelope.Data.Object)
		if err != nil {
			return nil, err
		}
		event.Data = &PaymentFailed{Intent: *intent}
	case "customer.created":
		customer, err := parseCustomerObject(envelope.Data.Object)
		if err != nil {
			return nil, err
		}
		event.Data = &CustomerCreated{Customer: *customer}
	default:
		event.Data = &UnknownEvent{}
	}

	return event, nil
}

func parseSessionObject(payload json.RawMessage) (*SessionObject, error) {
	var object struct {
		ID              string            `json:"id"`
		Customer        interface{}       `json:"customer"`
		CustomerEmail   string            `json:"customer_email"`
		CustomerDetails *struct {
			Email string `json:"email"`
		} `json:"customer_details"`
		PaymentIntent interface{}       `json:"payment_intent"`
		AmountTotal   int64             `json:"amount_total"`
		Currency      string            `json:"currency"`
		PaymentStatus string            `json:"payment_status"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(payload, &object); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(object.CustomerEmail)
	if object.CustomerDetails != nil && strings.TrimSpace(object.CustomerDetails.Email) != "" {
		email = strings.TrimSpace(object.CustomerDetails.Email)
	}

	return &SessionObject{
		ID:            strings.TrimSpace(object.ID),
		CustomerID:    parseStringish(object.Customer),
		CustomerEmail: email,
		PaymentIntent: parseStringish(object.PaymentIntent),
		AmountTotal:   object.AmountTotal,
		Currency:      strings.ToLower(strings.TrimSpace(object.Currency)),
		PaymentStatus: strings.TrimSpace(object.PaymentStatus),
		Metadata:      object.Metadata,
	}, nil
}

func parsePaymentIntentObject(payload json.RawMessage) (*PaymentIntentObject, error) {
	var object struct {
		ID               string `json:"id"`
		Amount           int64  `json:"amount"`
		Currency         string `json:"currency"`
		ReceiptEmail     string `json:"receipt_email"`
		LastPaymentError *struct {
			Message string `json:"message"`
		} `json:"last_payment_error"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(payload, &object); err != nil {
		return nil, err
	}

	failureReason := ""
	if object.LastPaymentError != nil {
		failureReason = strings.TrimSpace(object.LastPaymentError.Message)
	}

	return &PaymentIntentObject{
		ID:            strings.TrimSpace(object.ID),
		Amount:        object.Amount,
		Currency:      strings.ToLower(strings.TrimSpace(object.Currency)),
		ReceiptEmail:  strings.TrimSpace(object.ReceiptEmail),
		FailureReason: failureReason,
		Metadata:      object.Metadata,
	}, nil
}

func parseCustomerObject(payload json.RawMessage) (*CustomerObject, error) {
	var object struct {
		ID       string            `json:"id"`
		Email    string            `json:"email"`
		Name     string            `json:"name"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(payload, &object); err != nil {
		return nil, err
	}

	return &CustomerObject{
		ID:       strings.TrimSpace(object.ID),
		Email:    strings.TrimSpace(object.Email),
		Name:     strings.TrimSpace(object.Name),
		Metadata: object.Metadata,
	}, nil
}

func parseStringish(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		if raw, ok := t["id"]; ok {
			if s, ok := raw.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
