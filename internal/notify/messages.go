package notify

import "fmt"

// FinderMessage is the notice sent to the user who filed the found report,
// asking them to bring the item to the admin office.
func FinderMessage(finderName, itemTitle, pickupCode string) (subject, body string) {
	subject = "Action Required: Item Claimed - Handover to Admin"
	body = fmt.Sprintf(`Dear %s,

Good news! The item you reported as FOUND has been successfully claimed and verified by our admin team.

Item Details: %s

NEXT STEPS:
1. Please bring the item to the Admin Office
2. Hand over the item to the administrator
3. Provide this PICKUP CODE to the admin: %s

IMPORTANT:
- Keep this code confidential
- The admin will verify this code before accepting the item
- Once handed over, you will receive a confirmation

Thank you for your honesty and cooperation!

Best regards,
Lost & Found Management Team

Pickup Code: %s
`, finderName, itemTitle, pickupCode, pickupCode)
	return subject, body
}

// ClaimerMessage is the notice sent to the claimant whose claim was approved.
func ClaimerMessage(claimerName, itemTitle, pickupCode string) (subject, body string) {
	subject = "Great News! Your Claim Approved - Collect Your Item"
	body = fmt.Sprintf(`Dear %s,

Excellent news! Your claim has been APPROVED by our admin team.

Item Details: %s

NEXT STEPS TO COLLECT YOUR ITEM:
1. Visit the Admin Office during office hours
2. Provide this PICKUP CODE to the administrator: %s
3. Bring a valid ID for verification
4. Collect your item

IMPORTANT:
- Keep this code confidential and secure
- You must provide this exact code to collect the item
- The item will be held for 7 days from today

Best regards,
Lost & Found Management Team

Pickup Code: %s
`, claimerName, itemTitle, pickupCode, pickupCode)
	return subject, body
}
