package email

import (
	"fmt"
	"html"

	"gearshed/internal/models"
)

func (s *Service) welcomeHTML(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Gearshed</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f4f6f3;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #3b5b3f;
            text-align: center;
        }
        .cta-button {
            display: inline-block;
            background-color: #3b5b3f;
            color: white;
            padding: 12px 24px;
            text-decoration: none;
            border-radius: 6px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e4e7e2;
            font-size: 13px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Gearshed</div>
        <p>Your account is ready. Here is what you can do with it:</p>
        <ul>
            <li>Keep an inventory of your climbing, skiing and running gear with weights</li>
            <li>Build pack lists for trips and see where the weight goes</li>
            <li>Track the gear you still want on a wishlist</li>
        </ul>
        <p style="text-align: center; margin: 30px 0;">
            <a href="%s" class="cta-button">Open Gearshed</a>
        </p>
        <div class="footer">
            <p>This email was sent to %s because an account was created with this address.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(s.appURL), html.EscapeString(user.Email))
}

func (s *Service) welcomeText(user *models.User) string {
	return fmt.Sprintf(`Welcome to Gearshed!

Your account is ready. Here is what you can do with it:

- Keep an inventory of your climbing, skiing and running gear with weights
- Build pack lists for trips and see where the weight goes
- Track the gear you still want on a wishlist

Get started: %s

---
This email was sent to %s because an account was created with this address.`, s.appURL, user.Email)
}
