package checkout

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/utils"
)

type PaymentMethod string

const (
	MethodWhatsApp PaymentMethod = "WHATSAPP"
	MethodKwik     PaymentMethod = "KWIK"
)

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

type Zone string

const (
	ZoneInside  Zone = "inside"
	ZoneOutside Zone = "outside"
)

// Draft is the buyer input of a checkout.
type Draft struct {
	BuyerName string         `json:"buyer_name"`
	Quantity  int            `json:"quantity"`
	Delivery  DeliveryMethod `json:"delivery_method"`
	Zone      Zone           `json:"delivery_zone"`
	Method    PaymentMethod  `json:"payment_method"`
	KwikPhone string         `json:"kwik_phone,omitempty"`
}

// Fees are the delivery fees in AOA.
type Fees struct {
	SameRegion  int64
	OtherRegion int64
}

// DeliveryFee is zero for pickup whatever the zone.
func (f Fees) DeliveryFee(d Draft) int64 {
	if d.Delivery == DeliveryPickup {
		return 0
	}
	if d.Zone == ZoneInside {
		return f.SameRegion
	}
	return f.OtherRegion
}

// Quote is the price breakdown of a draft.
type Quote struct {
	Subtotal  int64  `json:"subtotal"`
	Fee       int64  `json:"fee"`
	Total     int64  `json:"total"`
	TotalText string `json:"total_text"`
}

func (f Fees) Quote(price int64, d Draft) Quote {
	sub := price * int64(d.Quantity)
	fee := f.DeliveryFee(d)
	return Quote{Subtotal: sub, Fee: fee, Total: sub + fee, TotalText: utils.FormatKz(sub + fee)}
}

// MaxQuantity caps the tickets of a single order.
const MaxQuantity = 1000

// validateQuantity keeps price*quantity+fee inside int64.
func (f Fees) validateQuantity(op string, price int64, d Draft) error {
	if d.Quantity < 1 {
		return apperr.Invalid(op, "A quantidade deve ser pelo menos 1.")
	}
	if d.Quantity > MaxQuantity {
		return apperr.Invalid(op, "A quantidade máxima por pedido é "+strconv.Itoa(MaxQuantity)+".")
	}
	if price > 0 && int64(d.Quantity) > (math.MaxInt64-f.DeliveryFee(d))/price {
		return apperr.Invalid(op, "O valor total do pedido é demasiado alto.")
	}
	return nil
}

func validateDelivery(op string, d Draft) error {
	switch d.Delivery {
	case DeliveryPickup:
	case DeliveryDelivery:
		if d.Zone != ZoneInside && d.Zone != ZoneOutside {
			return apperr.Invalid(op, "Zona de entrega inválida.")
		}
	default:
		return apperr.Invalid(op, "Método de entrega inválido.")
	}
	return nil
}

func validateShape(op string, d Draft) error {
	if err := validateDelivery(op, d); err != nil {
		return err
	}
	if d.Method != MethodWhatsApp && d.Method != MethodKwik {
		return apperr.Invalid(op, "Método de pagamento inválido.")
	}
	return nil
}

func (f Fees) validate(op string, price int64, d Draft) error {
	if strings.TrimSpace(d.BuyerName) == "" {
		return apperr.Invalid(op, "Por favor, insira seu nome.")
	}
	if err := f.validateQuantity(op, price, d); err != nil {
		return err
	}
	if err := validateShape(op, d); err != nil {
		return err
	}
	if d.Method == MethodKwik && strings.TrimSpace(d.KwikPhone) == "" {
		return apperr.Invalid(op, "Por favor, insira o número de telefone associado ao Kwik.")
	}
	return nil
}

// displayDate renders YYYY-MM-DD as DD/MM/YYYY and leaves anything else as is.
func displayDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// OrderMessage is the chat message sent to the organizer. An empty
// reference means the payment is still pending.
func OrderMessage(ev model.Event, d Draft, total int64, reference string) string {
	delivery := "Levantamento Presencial (Sem taxa)"
	if d.Delivery == DeliveryDelivery {
		zone := "Outra Província"
		if d.Zone == ZoneInside {
			zone = "Mesma Província"
		}
		delivery = "Delivery (" + zone + ")"
	}

	status := "⏳ *Pagamento Pendente* (A tratar no atendimento)"
	closing := "Gostaria de finalizar o pagamento."
	if reference != "" {
		status = "✅ *PAGO VIA KWIK* (Ref: " + reference + ")"
		closing = "O pagamento já foi confirmado. Aguardo o envio dos ingressos."
	}

	var b strings.Builder
	b.WriteString("*NOVO PEDIDO - UNIKIALA*\n\n")
	b.WriteString("🎟 *Evento:* " + ev.Title + "\n")
	b.WriteString("🏷 *Categoria:* " + ev.CategoryOrDefault() + "\n")
	b.WriteString("📍 *Local:* " + ev.Location + "\n")
	b.WriteString("📅 *Data:* " + displayDate(ev.Date) + "\n")
	b.WriteString("--------------------------------\n")
	b.WriteString("👤 *Cliente:* " + strings.TrimSpace(d.BuyerName) + "\n")
	b.WriteString("🔢 *Qtd:* " + strconv.Itoa(d.Quantity) + "\n")
	b.WriteString("🚚 *Entrega:* " + delivery + "\n")
	b.WriteString("💰 *Total:* " + utils.FormatKz(total) + "\n")
	b.WriteString("💳 *Status:* " + status + "\n\n")
	b.WriteString(closing)
	return b.String()
}

// HandoffURL opens a chat with handle prefilled with msg.
func HandoffURL(handle, msg string) string {
	return "https://wa.me/" + handle + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
