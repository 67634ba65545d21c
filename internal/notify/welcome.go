package notify

import "fmt"

// WelcomeSubject is the confirmation mail subject line.
const WelcomeSubject = "Welcome to the LangChain Workshop! - Important Details Inside"

const welcomeBody = `
<html>
<body style="background-color:#f5f5f5; font-family: Arial, sans-serif; margin:0; padding:0;">
<div style="max-width:600px; margin:0 auto; padding:20px; background:#ffffff; border-radius:10px;">
  <h1 style="color:#2c3e50; text-align:center;">Welcome to the LangChain Workshop!</h1>

  <div style="background-color:#f8f9fa; padding:15px; border-radius:5px; margin:15px 0;">
    <p style="color:#2c3e50;">Dear <strong>%s</strong> (USN: <strong>%s</strong>),</p>
    <p>Your registration has been confirmed! Here are the important details:</p>
  </div>

  <div style="background-color:#e8f4f8; padding:15px; border-radius:5px; margin:15px 0;">
    <h3 style="color:#2c3e50;">Event Details</h3>
    <ul style="color:#34495e;">
      <li>Date: January 20th, 2024</li>
      <li>Time: 9:00 AM - 4:00 PM</li>
      <li>Venue: CS Seminar Hall, 3rd Floor</li>
      <li>Website: <a href="https://langchain-workshop.vercel.app">langchain-workshop.vercel.app</a></li>
    </ul>
  </div>

  <div style="background-color:#f0f7f4; padding:15px; border-radius:5px; margin:15px 0;">
    <h3 style="color:#2c3e50;">Prerequisites</h3>
    <ul style="color:#34495e;">
      <li>Laptop with charger (mandatory)</li>
      <li>Python 3.8 or higher installed</li>
      <li>Basic Python knowledge</li>
      <li>Mobile phone (if 2FA enabled for email)</li>
    </ul>
  </div>

  <div style="background-color:#fff3cd; padding:15px; border-radius:5px; margin:15px 0;">
    <h3 style="color:#2c3e50;">Important Notes</h3>
    <ul style="color:#34495e;">
      <li>Your attendance will be tracked using your USN: %s</li>
      <li>For any queries, contact: +91 8867004280</li>
      <li>Please arrive 15 minutes early</li>
    </ul>
  </div>

  <p style="color:#7f8c8d; text-align:center;">Looking forward to an exciting learning experience!</p>
</div>
</body>
</html>
`

// WelcomeMessage builds the confirmation email for a newly accepted
// registrant.
func WelcomeMessage(name, usn, email string) Message {
	return Message{
		To:       Recipient{Name: name, Email: email},
		Subject:  WelcomeSubject,
		HTMLBody: fmt.Sprintf(welcomeBody, name, usn, usn),
	}
}
