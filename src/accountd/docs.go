// Package main accountd API
//
// @title           accountd API
// @version         1.0
// @description     Account management REST API - signup, login, and role-guarded account administration.
//
// @host            localhost:8443
// @BasePath        /
// @schemes         https http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication. Prefix the token with "Bearer ".
package main
