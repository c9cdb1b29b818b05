package jobs

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/mail"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

const SendOrderMailName = "orders.mail"

var orderMail = template.Must(template.New("order_placed").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for your order #{{.Order.ID}}. We received it and will let you know when it ships.</p>
<table>
{{range .Order.Items}}<tr><td>{{if .Product}}{{.Product.Name}}{{else}}Product {{.ProductID}}{{end}}</td><td>x{{.Quantity}}</td><td>${{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Subtotal: ${{printf "%.2f" .Order.Subtotal}}<br>
{{if gt .Order.DiscountAmount 0.0}}Discount: -${{printf "%.2f" .Order.DiscountAmount}}<br>{{end}}
Tax: ${{printf "%.2f" .Order.Tax}}<br>
Shipping: ${{printf "%.2f" .Order.Shipping}}<br>
<strong>Total: ${{printf "%.2f" .Order.Total}}</strong></p>
`))

// SendOrderMailJob emails the order summary to its customer. Guest orders
// carry no address and are skipped.
type SendOrderMailJob struct {
	OrderID uint `json:"orderId"`
}

func (SendOrderMailJob) JobName() string { return SendOrderMailName }

func (j *SendOrderMailJob) Handle(ctx context.Context) error {
	order, err := repositories.NewOrderRepository().Find(ctx, j.OrderID)
	if errors.Is(err, orm.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	if order.User == nil || order.User.Email == "" {
		return nil
	}

	name := order.User.FullName()
	if name == "" {
		name = "there"
	}
	return mail.To(order.User.Email).
		Subject(fmt.Sprintf("Your Mock Shop order #%d", order.ID)).
		Template(orderMail, map[string]any{"Name": name, "Order": order}).
		Send(ctx)
}
