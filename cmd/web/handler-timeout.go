package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<html lang="es">
<head><title>Tiempo agotado</title></head>
<body>
<h1>Tiempo agotado</h1>
<p>El expediente tardó demasiado en responder.</p>
<p><a href="/case">Volver a la sala del caso</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, requestTimeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, requestTimeout, timeoutBody)
}
