package checkout

import (
	"testing"

	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() CustomerForm {
	return CustomerForm{
		FirstName: "Ada",
		LastName:  "Okafor",
		Email:     "ada@example.com",
		Phone:     "+2348012345678",
	}
}

func TestFormDataValidate(t *testing.T) {
	t.Run("complete customer info passes step 1", func(t *testing.T) {
		form := FormData{Customer: validCustomer()}
		assert.NoError(t, form.Validate(StepCustomerInfo))
	})

	t.Run("missing fields block step 1", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*CustomerForm)
		}{
			{"first name", func(c *CustomerForm) { c.FirstName = "" }},
			{"last name", func(c *CustomerForm) { c.LastName = "  " }},
			{"email", func(c *CustomerForm) { c.Email = "" }},
			{"invalid email", func(c *CustomerForm) { c.Email = "not-an-email" }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				customer := validCustomer()
				tc.mutate(&customer)
				form := FormData{Customer: customer}
				assert.Error(t, form.Validate(StepCustomerInfo))
			})
		}
	})

	t.Run("phone is optional", func(t *testing.T) {
		customer := validCustomer()
		customer.Phone = ""
		form := FormData{Customer: customer}
		assert.NoError(t, form.Validate(StepCustomerInfo))
	})

	t.Run("step 2 requires a payment method", func(t *testing.T) {
		form := FormData{}
		assert.Error(t, form.Validate(StepPayment))

		form.Payment.Method = payment.GatewayFlutterwave
		assert.NoError(t, form.Validate(StepPayment))
	})
}

func TestAdvance(t *testing.T) {
	t.Run("moves to payment once customer info validates", func(t *testing.T) {
		form := &FormData{Customer: validCustomer()}

		next, err := Advance(StepCustomerInfo, form)
		require.NoError(t, err)
		assert.Equal(t, StepPayment, next)
	})

	t.Run("rejected advance stays on the current step", func(t *testing.T) {
		form := &FormData{} // nothing filled in

		next, err := Advance(StepCustomerInfo, form)
		assert.Error(t, err)
		assert.Equal(t, StepCustomerInfo, next)
	})

	t.Run("cannot advance past the final step", func(t *testing.T) {
		form := &FormData{
			Customer: validCustomer(),
			Payment:  PaymentForm{Method: payment.GatewayBankTransfer},
		}

		next, err := Advance(StepPayment, form)
		assert.Error(t, err)
		assert.Equal(t, StepPayment, next)
	})

	t.Run("unknown step errors", func(t *testing.T) {
		_, err := Advance(Step(9), &FormData{})
		assert.Error(t, err)
	})
}

func TestBack(t *testing.T) {
	t.Run("steps back from payment", func(t *testing.T) {
		prev, err := Back(StepPayment)
		require.NoError(t, err)
		assert.Equal(t, StepCustomerInfo, prev)
	})

	t.Run("cannot step back from the first step", func(t *testing.T) {
		prev, err := Back(StepCustomerInfo)
		assert.Error(t, err)
		assert.Equal(t, StepCustomerInfo, prev)
	})
}

func TestStepNames(t *testing.T) {
	assert.Equal(t, "customer_info", StepCustomerInfo.String())
	assert.Equal(t, "payment", StepPayment.String())
	assert.Equal(t, "step_7", Step(7).String())
}

func TestNewSession(t *testing.T) {
	session := NewSession(42)

	assert.Equal(t, uint(42), session.UserID)
	assert.Equal(t, StepCustomerInfo, session.Step)
	assert.Equal(t, payment.GatewayFlutterwave, session.Form.Payment.Method)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "checkout:session:42", sessionKey(42))
}

func TestAnalyticsFromTotals(t *testing.T) {
	analytics := AnalyticsFromTotals(cart.CartTotals{
		SubTotal:      3500,
		TaxAmount:     263,
		TotalAmount:   3763,
		TotalQuantity: 3,
		ItemCount:     2,
	})

	assert.Equal(t, int64(3500), analytics.Subtotal)
	assert.Equal(t, int64(263), analytics.Tax)
	assert.Equal(t, int64(3763), analytics.Total)
	assert.Equal(t, 3, analytics.TotalItems)
}
