package handlers

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
)

type formField struct {
	Name  string
	Value string
}

type paymentFormData struct {
	Action       string
	Fields       []formField
	AutoRedirect bool
}

// The browser drops the action's query string on a GET submit, so query
// parameters of the payment URL are carried as hidden fields.
var paymentFormTmpl = template.Must(template.New("payment_form").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Pay with piprapay</title></head>
<body>
<form id="piprapay-form" action="{{.Action}}" method="GET">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<input type="submit" value="Pay with piprapay">
</form>
{{- if .AutoRedirect}}
<script>document.getElementById("piprapay-form").submit();</script>
{{- end}}
</body>
</html>
`))

var paymentErrorTmpl = template.Must(template.New("payment_error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment unavailable</title></head>
<body>
<p class="error">{{.}}</p>
</body>
</html>
`))

func renderPaymentForm(w io.Writer, paymentURL string, autoRedirect bool) error {
	u, err := url.Parse(paymentURL)
	if err != nil {
		return fmt.Errorf("invalid payment url: %w", err)
	}

	data := paymentFormData{AutoRedirect: autoRedirect}
	for name, values := range u.Query() {
		for _, v := range values {
			data.Fields = append(data.Fields, formField{Name: name, Value: v})
		}
	}
	u.RawQuery = ""
	data.Action = u.String()

	return paymentFormTmpl.Execute(w, data)
}

func renderPaymentError(w io.Writer, message string) error {
	return paymentErrorTmpl.Execute(w, message)
}
