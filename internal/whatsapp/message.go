// Package whatsapp renders the order summary handed off to the store's
// WhatsApp number and builds the wa.me deep link around it.
package whatsapp

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"warungjp/internal/domain"
)

// Yen formats an amount with thousands separators, e.g. ¥12,800.
func Yen(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "¥" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

func variantLine(v map[string]string) string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, ", ")
}

func settlementDetails(method string) string {
	switch method {
	case domain.MethodBankRupiah:
		return "\nNama Penerima: Warung Jepang\nNomor Rekening: 1234567890 (BCA)"
	case domain.MethodBankYucho:
		return "\nNama Penerima: Heri Kurnianta\nAccount Number: 22210551\nNama Bank: BANK POST\nBank code: 11170\nBranch code: 118\nReferensi: 24"
	}
	return ""
}

// Message renders the full Indonesian order summary for an order. paid marks
// a customer who already uploaded a transfer receipt.
func Message(o domain.Order, paid bool) string {
	var lines []string
	for _, it := range o.Items {
		line := fmt.Sprintf("- %s", it.Name)
		if v := variantLine(it.Variants); v != "" {
			line += " | Varian: " + v
		}
		line += fmt.Sprintf(" | Qty: %d | %s", it.Quantity, Yen(it.Price*int64(it.Quantity)))
		lines = append(lines, line)
	}

	subtotal := o.TotalPrice - o.ShippingFee

	var b strings.Builder
	b.WriteString("Halo Admin Warung Jepang\n\n")
	b.WriteString("Saya ingin memesan produk melalui website. Berikut detail pesanan saya:\n\n")
	b.WriteString("*INFORMASI PENERIMA:*\n")
	fmt.Fprintf(&b, "Nama penerima: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Nomor WhatsApp: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "Email: %s\n", o.Customer.Email)
	fmt.Fprintf(&b, "Prefektur: %s\n", o.Customer.Prefecture)
	fmt.Fprintf(&b, "Area/Kota/Cho/Machi: %s\n", o.Customer.City)
	fmt.Fprintf(&b, "Kode Pos: %s\n", o.Customer.PostalCode)
	fmt.Fprintf(&b, "Alamat lengkap: %s\n", o.Customer.Address)

	b.WriteString("\n*METODE PEMBAYARAN:*\n")
	b.WriteString(o.Customer.PaymentMethod)
	b.WriteString(settlementDetails(o.Customer.PaymentMethod))
	if paid {
		b.WriteString("\n\n*STATUS PEMBAYARAN:* Sudah Dibayar\nBukti pembayaran telah diunggah.")
	}
	b.WriteString("\n")

	b.WriteString("\n*DAFTAR PRODUK:*\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "*SUBTOTAL BELANJA: %s*", Yen(subtotal))
	if o.ShippingFee > 0 {
		fmt.Fprintf(&b, "\n*ONGKOS KIRIM (%s): %s*", o.Customer.Prefecture, Yen(o.ShippingFee))
	}
	fmt.Fprintf(&b, "\n*TOTAL BELANJA: %s*\n", Yen(o.TotalPrice))

	if o.Customer.Notes != "" {
		fmt.Fprintf(&b, "\nCatatan: %s\n", o.Customer.Notes)
	}

	b.WriteString("\nMohon konfirmasi pesanan saya. Terima kasih banyak!")
	return b.String()
}

// Link builds the wa.me deep link with the message percent-encoded in the
// text query parameter.
func Link(phone string, message string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + strings.TrimPrefix(phone, "/"),
		RawQuery: "text=" + url.QueryEscape(message),
	}
	return u.String()
}
