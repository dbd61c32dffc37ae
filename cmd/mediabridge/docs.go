package main

// General API documentation for swaggo. Regenerate internal/apidocs with
// `swag init -g cmd/mediabridge/docs.go -o internal/apidocs --parseDependency`.
//
// @title           mediabridge API
// @version         1.0
// @description     HTTP API for running the media engine and streaming its redirected logs and statistics.
//
// @contact.name   mediabridge maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
