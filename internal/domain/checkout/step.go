// internal/domain/checkout/step.go
package checkout

import (
	"fmt"
	"strings"
)

// Step is a position in the checkout wizard
type Step int

const (
	// StepCustomerInfo collects name, email and phone
	StepCustomerInfo Step = 1
	// StepPayment selects the payment method and submits the order
	StepPayment Step = 2

	firstStep = StepCustomerInfo
	lastStep  = StepPayment
)

// IsValid reports whether the step is a known wizard position
func (s Step) IsValid() bool {
	return s >= firstStep && s <= lastStep
}

// String returns a readable step name
func (s Step) String() string {
	switch s {
	case StepCustomerInfo:
		return "customer_info"
	case StepPayment:
		return "payment"
	default:
		return fmt.Sprintf("step_%d", int(s))
	}
}

// CustomerForm holds the buyer's contact details collected at step 1
type CustomerForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// PaymentForm holds the payment selection made at step 2
type PaymentForm struct {
	Method string `json:"method"`
}

// FormData is everything the wizard has collected so far
type FormData struct {
	Customer CustomerForm `json:"customer"`
	Payment  PaymentForm  `json:"payment"`
}

// Validate checks the fields a step needs before it can be left. Step 1
// requires first name, last name and a plausible email; step 2 requires a
// payment method.
func (f *FormData) Validate(step Step) error {
	switch step {
	case StepCustomerInfo:
		if strings.TrimSpace(f.Customer.FirstName) == "" {
			return fmt.Errorf("first name is required")
		}
		if strings.TrimSpace(f.Customer.LastName) == "" {
			return fmt.Errorf("last name is required")
		}
		email := strings.TrimSpace(f.Customer.Email)
		if email == "" {
			return fmt.Errorf("email is required")
		}
		if !strings.Contains(email, "@") {
			return fmt.Errorf("email is invalid")
		}
		return nil
	case StepPayment:
		if strings.TrimSpace(f.Payment.Method) == "" {
			return fmt.Errorf("payment method is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown checkout step: %d", step)
	}
}

// Advance moves forward one step after the current step validates
func Advance(current Step, form *FormData) (Step, error) {
	if !current.IsValid() {
		return firstStep, fmt.Errorf("unknown checkout step: %d", current)
	}
	if current == lastStep {
		return current, fmt.Errorf("already at the final checkout step")
	}
	if err := form.Validate(current); err != nil {
		return current, err
	}
	return current + 1, nil
}

// Back moves one step backward. Collected form data is kept so nothing is
// retyped.
func Back(current Step) (Step, error) {
	if !current.IsValid() {
		return firstStep, fmt.Errorf("unknown checkout step: %d", current)
	}
	if current == firstStep {
		return current, fmt.Errorf("already at the first checkout step")
	}
	return current - 1, nil
}
