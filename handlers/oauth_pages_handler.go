package handlers

import (
	"fmt"
	"html"
	"net/http"
)

// OAuthSuccessPage is the minimal landing page the OAuth popup redirects to.
func (h *Handler) OAuthSuccessPage(w http.ResponseWriter, r *http.Request) {
	platform := html.EscapeString(r.URL.Query().Get("platform"))
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Login Successful</title></head>
<body>
	<h1>Successfully connected!</h1>
	<p>Your %s account has been connected. You can close this window now.</p>
	<script>
		if (window.opener) {
			window.opener.postMessage({type: 'oauth_success', platform: '%s'}, '*');
			setTimeout(() => window.close(), 3000);
		}
	</script>
</body>
</html>`, platform, platform)
}

// OAuthErrorPage reports a failed login attempt.
func (h *Handler) OAuthErrorPage(w http.ResponseWriter, r *http.Request) {
	errorType := html.EscapeString(r.URL.Query().Get("error"))
	description := html.EscapeString(r.URL.Query().Get("description"))
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Login Failed</title></head>
<body>
	<h1>Connection failed</h1>
	<p>There was a problem connecting your account.</p>
	<p><strong>Error:</strong> %s<br><strong>Details:</strong> %s</p>
	<p>Please try again or contact support.</p>
</body>
</html>`, errorType, description)
}
