package auth

import (
	"fmt"
	"strings"
)

// ShowCookieExtractionGuide prints step-by-step instructions for pulling
// session cookies out of a logged-in browser.
func ShowCookieExtractionGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("INSTAGRAM COOKIE EXTRACTION GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("igfetch needs your Instagram session cookies to talk to the API.")
	fmt.Println("Extract them from your browser like this:")
	fmt.Println()

	fmt.Println("STEP 1: Open Instagram in your browser")
	fmt.Println("   - Go to https://www.instagram.com and log in")
	fmt.Println()

	fmt.Println("STEP 2: Open Developer Tools")
	fmt.Println("   - Chrome/Edge/Brave/Firefox: F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   - Safari: enable the Develop menu in Settings, then Cmd+Option+I")
	fmt.Println()

	fmt.Println("STEP 3: Find the cookies")
	fmt.Println("   - Go to the Application tab (Chrome) or Storage tab (Firefox)")
	fmt.Println("   - Expand Cookies in the sidebar and select https://www.instagram.com")
	fmt.Println()

	fmt.Println("STEP 4: Copy these values:")
	fmt.Println("   - sessionid   long string containing %3A and %2C")
	fmt.Println("   - csrftoken   32-character string")
	fmt.Println("   - ds_user_id  numeric account id (optional but recommended)")
	fmt.Println()

	fmt.Println("TIPS:")
	fmt.Println("   - Copy the whole value after the = sign, no quotes or semicolons")
	fmt.Println("   - Cookies expire; refresh them when requests start failing")
	fmt.Println("   - Prefer a secondary account for bulk fetching")
	fmt.Println()

	fmt.Println("SECURITY:")
	fmt.Println("   - These cookies grant full access to the account. Never share them.")
	fmt.Println("   - igfetch stores them in the system keychain or an encrypted file.")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickExtractGuide prints the one-line version.
func ShowQuickExtractGuide() {
	fmt.Println("\nQuick guide: F12 > Application tab > Cookies > instagram.com")
	fmt.Println("   Need: sessionid, csrftoken, and optionally ds_user_id")
}
