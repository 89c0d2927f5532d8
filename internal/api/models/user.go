package models

// Me is the user's account summary.
type Me struct {
	UserID    string    `json:"userId"`
	Locale    string    `json:"locale"`
	CreatedAt Timestamp `json:"createdAt"`
}

// MeInput is the request body for updating account settings.
type MeInput struct {
	Locale *string `json:"locale,omitempty"`
}

// WellnessProfile is the user's personalization profile.
type WellnessProfile struct {
	Age                *int      `json:"age,omitempty"`
	SkinType           string    `json:"skinType,omitempty"`
	MedicalConditions  []string  `json:"medicalConditions,omitempty"`
	Lifestyle          []string  `json:"lifestyle,omitempty"`
	Goals              []string  `json:"goals,omitempty"`
	DailyCalorieTarget *int      `json:"dailyCalorieTarget,omitempty"`
	CreatedAt          Timestamp `json:"createdAt"`
	UpdatedAt          Timestamp `json:"updatedAt"`
}

// WellnessProfileInput is the request body for profile upserts. Nil
// fields are left untouched.
type WellnessProfileInput struct {
	Age                *int     `json:"age,omitempty"`
	SkinType           *string  `json:"skinType,omitempty"`
	MedicalConditions  []string `json:"medicalConditions,omitempty"`
	Lifestyle          []string `json:"lifestyle,omitempty"`
	Goals              []string `json:"goals,omitempty"`
	DailyCalorieTarget *int     `json:"dailyCalorieTarget,omitempty"`
}

// Consents is the user's privacy consent state.
type Consents struct {
	Analytics         bool      `json:"analytics"`
	AIProcessing      bool      `json:"aiProcessing"`
	PushNotifications bool      `json:"pushNotifications"`
	UpdatedAt         Timestamp `json:"updatedAt"`
}

// ConsentsInput is the request body for consent updates.
type ConsentsInput struct {
	Analytics         *bool `json:"analytics,omitempty"`
	AIProcessing      *bool `json:"aiProcessing,omitempty"`
	PushNotifications *bool `json:"pushNotifications,omitempty"`
}
