package payment

import (
	"fmt"
	"strings"
	"time"

	apporder "github.com/campusbazaar/marketplace/internal/application/order"
	domnotify "github.com/campusbazaar/marketplace/internal/domain/notify"
	domain "github.com/campusbazaar/marketplace/internal/domain/payment"
	"github.com/shopspring/decimal"
)

func itemQty(q int) decimal.Decimal { return decimal.NewFromInt(int64(q)) }

func otpMessage(challenge *domain.Challenge, ttl time.Duration, resent bool) domnotify.Message {
	subject := "CampusBazaar - Payment OTP"
	if resent {
		subject += " (Resent)"
	}

	var b strings.Builder
	if resent {
		fmt.Fprintf(&b, "You have requested a new OTP for your payment of ₹%s for Order #%d.\n\n",
			challenge.Amount.StringFixed(2), challenge.OrderID)
	} else {
		fmt.Fprintf(&b, "You have initiated a payment of ₹%s for Order #%d.\n\n",
			challenge.Amount.StringFixed(2), challenge.OrderID)
	}
	fmt.Fprintf(&b, "Your OTP is: %s\n", challenge.Code)
	fmt.Fprintf(&b, "It is valid for %d minutes.\n\n", int(ttl.Minutes()))
	b.WriteString("Please enter this OTP to complete your payment.\n")
	b.WriteString("If you didn't initiate this payment, please ignore this email or contact support.\n")

	return domnotify.Message{To: challenge.BuyerEmail, Subject: subject, Body: b.String()}
}

func confirmationMessage(challenge *domain.Challenge, view *apporder.View) domnotify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your payment of ₹%s has been processed successfully!\n\n",
		challenge.Amount.StringFixed(2))
	fmt.Fprintf(&b, "Order ID: #%d\n", view.OrderID)
	fmt.Fprintf(&b, "Order Date: %s\n", view.OrderDate.Format("January 2, 2006 at 3:04 PM"))
	b.WriteString("Payment Status: Completed\n\n")
	b.WriteString("Order Items:\n")
	for _, item := range view.Items {
		lineTotal := item.UnitPrice.Mul(itemQty(item.Quantity))
		fmt.Fprintf(&b, "  %s x%d @ ₹%s = ₹%s\n",
			item.ProductName, item.Quantity, item.UnitPrice.StringFixed(2), lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal Amount: ₹%s\n\n", view.Total.StringFixed(2))
	b.WriteString("Thank you for shopping with CampusBazaar!\n")

	return domnotify.Message{
		To:      challenge.BuyerEmail,
		Subject: "CampusBazaar - Payment Confirmed!",
		Body:    b.String(),
	}
}
