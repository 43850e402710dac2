package services

import "strconv"

// roomID names the websocket room for a tournament.
func roomID(tournamentID int) string {
	return strconv.Itoa(tournamentID)
}
