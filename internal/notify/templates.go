package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/BruksfildServices01/services-booking/internal/models"
)

var templates = template.Must(template.New("notify").Parse(`
{{define "booking_created"}}
<h2>New booking received</h2>
<p><strong>{{.Service.Title}}</strong> on {{.Booking.BookingDate}} at {{.Booking.BookingTime}} for {{.Booking.BookedDuration}} minutes.</p>
<ul>
  <li>Name: {{.Booking.Name}}</li>
  <li>Email: {{.Booking.Email}}</li>
  <li>Mobile: {{.Booking.Mobile}}</li>
  <li>Address: {{.Booking.Address}}, {{.Booking.City}} {{.Booking.Pincode}}, {{.Booking.Country}}</li>
  <li>Total: {{printf "%.2f" .Booking.TotalPrice}}</li>
</ul>
{{end}}

{{define "quote_received"}}
<h2>New quote request</h2>
<ul>
  <li>Name: {{.FirstName}} {{.LastName}}</li>
  <li>Email: {{.Email}}</li>
  <li>Mobile: {{.Mobile}}</li>
  <li>Location: {{.Location}}</li>
  <li>Reason: {{.ReasonOfInquiry}}</li>
</ul>
<p>{{.Message}}</p>
{{end}}

{{define "join_us_received"}}
<h2>New join-us application</h2>
<ul>
  <li>Name: {{.Name}}</li>
  <li>Email: {{.Email}}</li>
  <li>Mobile: {{.Mobile}}</li>
  <li>Resume: <a href="{{.Resume}}">{{.Resume}}</a></li>
</ul>
<h3>About</h3>
<p>{{.AboutYou}}</p>
<h3>Why join us</h3>
<p>{{.WhyJoinUs}}</p>
{{end}}

{{define "daily_agenda"}}
<h2>Agenda for {{.Date}}</h2>
{{if .Bookings}}
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Time</th><th>Service</th><th>Minutes</th><th>Customer</th><th>Mobile</th><th>Status</th></tr>
  {{range .Bookings}}
  <tr>
    <td>{{.BookingTime}}</td>
    <td>{{if .Service}}{{.Service.Title}}{{else}}#{{.ServiceID}}{{end}}</td>
    <td>{{.BookedDuration}}</td>
    <td>{{.Name}}</td>
    <td>{{.Mobile}}</td>
    <td>{{.Status}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p>No bookings today.</p>
{{end}}
{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func BookingCreated(to string, b *models.Booking, svc *models.Service) (Message, error) {
	html, err := render("booking_created", struct {
		Booking *models.Booking
		Service *models.Service
	}{b, svc})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New booking: %s on %s %s", svc.Title, b.BookingDate, b.BookingTime),
		HTML:    html,
	}, nil
}

func QuoteReceived(to string, q *models.RequestQuote) (Message, error) {
	html, err := render("quote_received", q)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New quote request from %s %s", q.FirstName, q.LastName),
		HTML:    html,
	}, nil
}

func JoinUsReceived(to string, j *models.JoinUs) (Message, error) {
	html, err := render("join_us_received", j)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New application from %s", j.Name),
		HTML:    html,
	}, nil
}

func DailyAgenda(to, date string, bookings []models.Booking) (Message, error) {
	html, err := render("daily_agenda", struct {
		Date     string
		Bookings []models.Booking
	}{date, bookings})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Agenda for %s (%d bookings)", date, len(bookings)),
		HTML:    html,
	}, nil
}
