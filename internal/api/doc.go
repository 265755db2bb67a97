// Package api handles incoming HTTP requests for meetings: request decoding,
// validation and response formatting. It translates HTTP concerns to calls on
// service.MeetingService and maps service errors back to status codes.
package api
