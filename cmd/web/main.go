package main

import "petnest_backend/internal/app"

func main() {
	app.Run()
}
