package mail

import (
	"bytes"
	"html/template"
)

// ResetSubject is the subject line of password reset mail.
const ResetSubject = "Your Password Reset Token"

var niceEmail = template.Must(template.New("email").Parse(`<div class="email" style="
        border: 1px solid black;
        padding: 20px;
        font-family: sans-serif;
        line-height: 2;
        font-size: 20px;
      ">
  <h2>Hello There!</h2>
  <p>{{.Text}}</p>
  <p>Click <a href="{{.Link}}">here</a> to reset.</p>
  <p>😘, The Storefront Team</p>
</div>
`))

// ResetEmail renders the HTML body of a password reset mail linking to
// {frontendURL}/reset?resetToken={token}.
func ResetEmail(frontendURL, token string) (string, error) {
	link := frontendURL + "/reset?resetToken=" + token

	var buf bytes.Buffer
	err := niceEmail.Execute(&buf, struct {
		Text string
		Link string
	}{
		Text: "Your Password Reset Token is here!",
		Link: link,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
