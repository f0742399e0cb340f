package common

// SessionCookieName is the name of the cookie that carries the signed
// session token on every protected request.
const SessionCookieName = "token"
