package handlers

import (
	"log"
	"net/http"
)

// respondWithError writes a plain error response after logging the cause.
// userMsg is what the browser sees; logMsg, when set, is the internal
// description attached to the logged error.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}
