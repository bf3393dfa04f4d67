package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title phishview API
// @version 0.1
// @description Frontend surface for submitting URLs to a phishing analysis backend and rendering its verdicts.
// @contact.name phishview maintainers
// @contact.url https://github.com/raysh454/phishview
// @BasePath /
