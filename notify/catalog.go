package notify

import (
	"fmt"
	"html"
	"strings"
)

// Localized subject lines keyed by template key, then language. Languages
// without a translation fall back to English.
var subjects = map[string]map[string]string{
	"verify_email_subject": {
		"en": "Verify Your Email - FootballTalento",
		"ar": "تأكيد بريدك الإلكتروني - FootballTalento",
		"fr": "Vérifiez votre e-mail - FootballTalento",
		"es": "Verifica tu correo - FootballTalento",
		"it": "Verifica la tua email - FootballTalento",
		"de": "E-Mail verifizieren - FootballTalento",
	},
	"welcome_subject": {
		"en": "Welcome to FootballTalento - Email Verified",
		"ar": "مرحباً بك في FootballTalento - تم تأكيد البريد",
		"fr": "Bienvenue sur FootballTalento - E-mail vérifié",
		"es": "Bienvenido a FootballTalento - Correo verificado",
		"it": "Benvenuto su FootballTalento - Email verificata",
	},
	"forgot_password_subject": {
		"en": "Reset Your Password - FootballTalento",
		"ar": "إعادة تعيين كلمة المرور - FootballTalento",
	},
	"password_changed_subject": {
		"en": "Password Changed Successfully - FootballTalento",
		"ar": "تم تغيير كلمة المرور بنجاح - FootballTalento",
	},
}

var greetings = map[string]string{
	"en": "Hi",
	"ar": "مرحباً",
	"fr": "Bonjour",
	"es": "Hola",
	"it": "Ciao",
	"de": "Hallo",
}

func lookup(table map[string]map[string]string, key, language string) string {
	byLang, ok := table[key]
	if !ok {
		return ""
	}
	if s, ok := byLang[language]; ok {
		return s
	}
	return byLang["en"]
}

// Subject returns the localized subject line for a message kind.
func Subject(kind Kind, language string) string {
	switch kind {
	case KindVerifyEmail:
		return lookup(subjects, "verify_email_subject", language)
	case KindWelcome:
		return lookup(subjects, "welcome_subject", language)
	case KindResetPassword:
		return lookup(subjects, "forgot_password_subject", language)
	case KindPasswordChanged:
		return lookup(subjects, "password_changed_subject", language)
	default:
		return ""
	}
}

// RenderHTML builds the HTML body for a message. Arabic renders
// right-to-left, everything else left-to-right.
func RenderHTML(msg Message) string {
	dir := "ltr"
	if msg.Language == "ar" {
		dir = "rtl"
	}

	greeting := greetings[msg.Language]
	if greeting == "" {
		greeting = greetings["en"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div dir=%q style="font-family: Arial, sans-serif;">`, dir)
	fmt.Fprintf(&b, "<p>%s %s,</p>", html.EscapeString(greeting), html.EscapeString(msg.Name))

	switch msg.Kind {
	case KindVerifyEmail:
		b.WriteString("<p>Please click the button below to verify your email address and activate your account.</p>")
		writeLink(&b, msg.Params["link"], "Verify Email Address")
	case KindWelcome:
		b.WriteString("<p>Thank you for joining FootballTalento! We're excited to have you as part of our community.</p>")
		b.WriteString("<p>Your account details:</p><ul>")
		for _, field := range []struct{ label, key string }{
			{"Email", "email"},
			{"Account Type", "account_type"},
			{"Country", "country"},
			{"Currency", "currency"},
		} {
			if v := msg.Params[field.key]; v != "" {
				fmt.Fprintf(&b, "<li>%s: %s</li>", field.label, html.EscapeString(v))
			}
		}
		b.WriteString("</ul>")
	case KindResetPassword:
		b.WriteString("<p>We received a request to reset your password. Click the button below to create a new password.</p>")
		writeLink(&b, msg.Params["link"], "Reset Password")
		b.WriteString("<p>This link will expire in 15 minutes for security purposes.</p>")
		b.WriteString("<p>If you didn't request this, please ignore this email.</p>")
	case KindPasswordChanged:
		b.WriteString("<p>Your password has been successfully updated.</p>")
	}

	b.WriteString("<p>Best regards,<br><strong>FootballTalento Team</strong></p>")
	b.WriteString("</div>")

	return b.String()
}

func writeLink(b *strings.Builder, href, label string) {
	if href == "" {
		return
	}
	fmt.Fprintf(b, `<p><a href=%q>%s</a></p>`, href, html.EscapeString(label))
}
