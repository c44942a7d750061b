package domain

import "github.com/google/uuid"

type EmployeeID = uuid.UUID
type PhoneID = uuid.UUID
type OtpID = uuid.UUID
