package entity

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentPayPal     PaymentMethod = "PAYPAL"
	PaymentOnline     PaymentMethod = "ONLINE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentOnline:
		return true
	}
	return false
}
