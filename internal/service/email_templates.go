package service

import "html/template"

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "layout_start"}}<div style="font-family:'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background:#f9f9f9;padding:32px;">
<table style="max-width:640px;margin:auto;background:#fff;border-radius:8px;border:1px solid #eee;">
<tr><td style="background:#0f2b4c;color:#e7b333;padding:20px 24px;font-size:22px;font-weight:bold;">{{.Title}}</td></tr>
<tr><td style="padding:24px;color:#333;line-height:1.6;">{{end}}

{{define "layout_end"}}</td></tr>
<tr><td style="background:#0f2b4c;color:#e7b333;text-align:center;font-size:13px;padding:14px;">{{.Property}}</td></tr>
</table></div>{{end}}

{{define "stay_table"}}<table style="margin:20px 0;border-collapse:collapse;width:100%;">
<tr><td style="padding:8px;border:1px solid #ddd;"><strong>Booking number</strong></td><td style="padding:8px;border:1px solid #ddd;">{{.Booking.BookingCode}}</td></tr>
<tr><td style="padding:8px;border:1px solid #ddd;"><strong>Arrive</strong></td><td style="padding:8px;border:1px solid #ddd;">{{.CheckIn}}</td></tr>
<tr><td style="padding:8px;border:1px solid #ddd;"><strong>Depart</strong></td><td style="padding:8px;border:1px solid #ddd;">{{.CheckOut}}</td></tr>
</table>{{end}}

{{define "tariff"}}<h3 style="color:#0f2b4c;margin-top:24px;">Your stay</h3>
<ul style="margin-left:20px;">{{range .Tariff}}<li>{{.Label}} – {{.Rate}}</li>{{end}}</ul>{{end}}

{{define "cancel_link"}}<p style="margin-top:32px;">If you need to cancel your booking, please use the link below:<br>
<a href="{{.CancelURL}}" style="color:#0f2b4c;font-weight:600;">Cancel this booking</a></p>
<p style="font-size:13px;color:#666;">This link is unique to your booking, please do not share it.</p>{{end}}

{{define "approvers_new_booking"}}{{template "layout_start" .}}
<p>A new booking request is waiting for approval.</p>
<p><strong>Guest:</strong> {{.Booking.GuestName}} ({{.Booking.GuestEmail}})</p>
{{template "stay_table" .}}
<p><strong>Party:</strong> {{.Booking.Adults}} adults, {{.Booking.GrandchildrenOver21}} grandchildren over 21, {{.Booking.Children16Plus}} aged 16+, {{.Booking.Students}} students{{if .Booking.FamilyMember}}, family booking{{end}}</p>
<p><a href="{{.AdminURL}}" style="color:#0f2b4c;font-weight:600;">Review this booking</a></p>
{{template "layout_end" .}}{{end}}

{{define "guest_approved"}}{{template "layout_start" .}}
<p>Dear {{.Booking.GuestName}},</p>
<p>We are delighted to confirm your stay at <strong>{{.Property}}</strong>.</p>
{{template "stay_table" .}}
{{if .Comment}}<p><strong>Note from the approver:</strong><br>{{.Comment}}</p>{{end}}
{{template "tariff" .}}
<p>Please transfer payment, including the cleaning charge, at least two weeks before your visit, quoting your booking number.</p>
<p>Arrive after 4 pm and depart by 10 am to allow for cleaning.</p>
{{template "cancel_link" .}}
{{template "layout_end" .}}{{end}}

{{define "guest_rejected"}}{{template "layout_start" .}}
<p>Dear {{.Booking.GuestName}},</p>
<p>Thank you for your interest in staying at <strong>{{.Property}}</strong>.
Unfortunately your booking request for <strong>{{.CheckIn}} – {{.CheckOut}}</strong> was <span style="color:#c00;font-weight:bold;">not approved</span>.</p>
{{if .Comment}}<p><strong>Reason from the approver:</strong><br>{{.Comment}}</p>{{end}}
<p>You are very welcome to check availability again at any time.</p>
{{template "layout_end" .}}{{end}}

{{define "guest_cancelled"}}{{template "layout_start" .}}
<p>Dear {{.Booking.GuestName}},</p>
<p>Your booking <strong>{{.Booking.BookingCode}}</strong> for <strong>{{.CheckIn}} – {{.CheckOut}}</strong> has been cancelled.</p>
<p><strong>Reason:</strong> {{.Reason}}</p>
<p>We hope to welcome you another time. <a href="{{.SiteURL}}" style="color:#0f2b4c;">Check availability</a></p>
{{template "layout_end" .}}{{end}}

{{define "approvers_cancelled"}}{{template "layout_start" .}}
<p>A booking has been cancelled and its dates are free again.</p>
<p><strong>Guest:</strong> {{.Booking.GuestName}} ({{.Booking.GuestEmail}})</p>
{{template "stay_table" .}}
<p><strong>Reason:</strong> {{.Reason}}</p>
<p><a href="{{.AdminURL}}" style="color:#0f2b4c;font-weight:600;">Open the admin dashboard</a></p>
{{template "layout_end" .}}{{end}}

{{define "guest_reminder"}}{{template "layout_start" .}}
<p>Dear {{.Booking.GuestName}},</p>
<p>We are looking forward to welcoming you to <strong>{{.Property}}</strong> next week. Here is a reminder of your booking.</p>
{{template "stay_table" .}}
{{template "tariff" .}}
<p>If you have not done so already, please make sure your balance is transferred before arrival.</p>
{{template "cancel_link" .}}
{{template "layout_end" .}}{{end}}

{{define "cleaner_checkouts"}}{{template "layout_start" .}}
<p>The following guests are checking out on <strong>{{.Day}}</strong>:</p>
<ul>{{range .Stays}}<li><strong>{{.GuestName}}</strong>, {{.Party}} guests, leaving {{.CheckOut}}</li>{{end}}</ul>
<p>Please make sure the property is scheduled for cleaning.</p>
{{template "layout_end" .}}{{end}}

{{define "admins_recommendation"}}{{template "layout_start" .}}
<p>A new local recommendation was submitted and is waiting for review.</p>
<p><strong>{{.Recommendation.Name}}</strong> ({{.Recommendation.Category}})</p>
{{if .Recommendation.Address}}<p>{{.Recommendation.Address}}</p>{{end}}
<p>{{.Recommendation.Description}}</p>
{{if .Recommendation.SubmittedBy}}<p>Submitted by {{.Recommendation.SubmittedBy}}</p>{{end}}
<p><a href="{{.AdminURL}}" style="color:#0f2b4c;font-weight:600;">Review recommendations</a></p>
{{template "layout_end" .}}{{end}}

{{define "subscriber_sunny_week"}}{{template "layout_start" .}}
<p>Hi {{if .Subscriber.Name}}{{.Subscriber.Name}}{{else}}Friend{{end}}, we've spotted a sunny gap in the calendar next week.</p>
<p><strong>{{.Period}}</strong></p>
<table style="margin:20px 0;border-collapse:collapse;width:100%;text-align:center;"><tr>
{{range .Forecast}}<td style="padding:6px;{{if .Booked}}opacity:0.4;{{end}}">
<div style="font-weight:600;">{{.Weekday}}</div><div style="font-size:12px;color:#666;">{{.Date}}</div>
<img src="{{.IconURL}}" width="36" height="36" alt="">
<div>{{.MaxTemp}}&deg;C</div>
<div style="font-size:12px;">{{if .Booked}}Booked{{else if .Sunny}}<strong style="color:#2e7d32;">Sunny &amp; free</strong>{{else}}Free{{end}}</div>
</td>{{end}}
</tr></table>
<p><a href="{{.SiteURL}}" style="color:#0f2b4c;font-weight:600;">Check availability</a></p>
<p style="margin-top:32px;font-size:12px;"><a href="{{.UnsubscribeURL}}" style="color:#888;">Unsubscribe from weather alerts</a></p>
{{template "layout_end" .}}{{end}}
`))
