package handlers

// exported for handlers_test
var MaskEmail = maskEmail
