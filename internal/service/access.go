// Package service implements the business logic layer for the application.
package service

import "concierge/internal/models"

// CanAccessRequest reports whether the user may view the request and its
// message thread. Admin-tier users can see every request; everyone else
// only their own.
func CanAccessRequest(user *models.User, req *models.Request) bool {
	if user == nil || req == nil {
		return false
	}
	if user.Role.IsAdminTier() {
		return true
	}
	return req.OwnerUserID == user.ID
}

// CanMutateStatus reports whether the user may change a request's status or
// delete the request. This is an admin-tier only operation.
func CanMutateStatus(user *models.User) bool {
	return user != nil && user.Role.IsAdminTier()
}

// CanSendMessage reports whether the user may post a message on the request.
// Same participants as CanAccessRequest: the owner and any admin-tier user.
func CanSendMessage(user *models.User, req *models.Request) bool {
	return CanAccessRequest(user, req)
}
