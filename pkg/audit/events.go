package audit

import "fmt"

// LoginEvent represents a credential authentication attempt
type LoginEvent struct {
	Username     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Username)
	}
	msg := fmt.Sprintf("%s failed to log in", e.Username)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result,
		},
	}
}

// CheckEvent represents a permission check on a protected route
type CheckEvent struct {
	Subject  string
	RoleID   int
	ClientIP string
	Path     string
	Method   string
	Allowed  bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("%s checked permission %s %s: allowed", e.Subject, e.Method, e.Path)
	}
	return fmt.Sprintf("%s checked permission %s %s: denied", e.Subject, e.Method, e.Path)
}

func (e CheckEvent) Severity() Severity {
	return SeverityInfo
}

func (e CheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Allowed {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Subject,
			"role": fmt.Sprintf("%d", e.RoleID),
		},
		SDIDSubject: {
			"path":   e.Path,
			"method": e.Method,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "check",
			"result":    result,
		},
	}
}

// PurchaseEvent represents a completed cart purchase
type PurchaseEvent struct {
	Subject  string
	UserID   int
	ClientIP string
	Ticket   string
	Total    float64
}

func (e PurchaseEvent) MessageID() string {
	return "purchase"
}

func (e PurchaseEvent) Message() string {
	return fmt.Sprintf("%s completed purchase %s for %.2f", e.Subject, e.Ticket, e.Total)
}

func (e PurchaseEvent) Severity() Severity {
	return SeverityNotice
}

func (e PurchaseEvent) Facility() int {
	return FacilityAuth
}

func (e PurchaseEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Subject,
			"id":   fmt.Sprintf("%d", e.UserID),
		},
		SDIDSubject: {
			"ticket": e.Ticket,
			"total":  fmt.Sprintf("%.2f", e.Total),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "purchase",
			"result":    "success",
		},
	}
}
