/*
Package client is the Go client for the nurseduty HTTP API.

Every method runs one request with a 10 second timeout. Replies other than
2xx come back as *APIError carrying the server's detail message; a 404 also
matches ErrNotFound:

	c := client.NewClient("http://localhost:8000")
	settings, err := c.GetSettings()
	if errors.Is(err, client.ErrNotFound) {
		// nothing saved yet
	}
*/
package client
