package knowledge

import "github.com/medtriage/backend/internal/domain/entities"

// Default returns the built-in knowledge base. The tables are a
// deliberately small, reviewable set; a fuller base can be supplied via
// KNOWLEDGE_PATH.
func Default() *Base {
	return fromFile(baseFile{
		SymptomConditions: map[string][]string{
			"fever":               {"common_cold", "flu", "infection", "covid"},
			"cough":               {"common_cold", "flu", "bronchitis", "pneumonia", "covid"},
			"sore_throat":         {"common_cold", "flu", "strep_throat"},
			"runny_nose":          {"common_cold", "allergies", "flu"},
			"headache":            {"tension_headache", "migraine", "flu", "dehydration"},
			"chest_pain":          {"heart_attack", "angina", "muscle_strain", "anxiety"},
			"shortness_of_breath": {"asthma", "heart_attack", "pneumonia", "anxiety"},
			"nausea":              {"food_poisoning", "flu", "migraine", "pregnancy"},
			"vomiting":            {"food_poisoning", "flu", "migraine", "gastroenteritis"},
			"diarrhea":            {"food_poisoning", "gastroenteritis", "ibs", "stress"},
			"fatigue":             {"flu", "anemia", "depression", "sleep_deprivation"},
			"dizziness":           {"dehydration", "low_blood_pressure", "inner_ear_problem"},
		},
		RedFlagSymptoms: []string{
			"severe_chest_pain",
			"difficulty_breathing",
			"severe_abdominal_pain",
			"severe_headache",
			"loss_of_consciousness",
			"severe_bleeding",
			"signs_of_stroke",
			"severe_allergic_reaction",
		},
		Conditions: map[string]entities.Condition{
			"common_cold": {
				Description: "Viral upper respiratory infection",
				CareLevel:   entities.CareLevelRoutine,
				Recommendations: []string{
					"Rest and hydration",
					"Over-the-counter medications for symptom relief",
					"See a doctor if symptoms worsen or last more than 10 days",
				},
			},
			"flu": {
				Description: "Influenza viral infection",
				CareLevel:   entities.CareLevelRoutine,
				Recommendations: []string{
					"Rest and hydration",
					"Antiviral medications if caught early",
					"Monitor for complications",
				},
			},
			"heart_attack": {
				Description: "Acute myocardial infarction",
				CareLevel:   entities.CareLevelEmergency,
				Recommendations: []string{
					"Call 911 immediately",
					"Chew aspirin if not allergic",
					"Do not drive yourself to hospital",
				},
			},
			"pneumonia": {
				Description: "Lung infection causing inflammation",
				CareLevel:   entities.CareLevelUrgent,
				Recommendations: []string{
					"See a doctor promptly",
					"May require antibiotics",
					"Monitor breathing and fever",
				},
			},
			"anxiety": {
				Description: "Anxiety disorder with physical symptoms",
				CareLevel:   entities.CareLevelRoutine,
				Recommendations: []string{
					"Practice relaxation techniques",
					"Consider counseling",
					"See primary care doctor for evaluation",
				},
			},
		},
		SymptomQuestions: map[string][]string{
			"chest_pain": {
				"On a scale of 1-10, how severe is the pain?",
				"Does the pain radiate to your arm, jaw, or back?",
				"Is the pain crushing, sharp, or burning?",
				"Does physical activity make it worse?",
			},
			"headache": {
				"On a scale of 1-10, how severe is the headache?",
				"Is this the worst headache you've ever had?",
				"Does light or sound make it worse?",
				"Do you have any visual changes?",
			},
			"cough": {
				"Are you coughing up anything?",
				"Is the cough dry or productive?",
				"How long have you had the cough?",
				"Does it keep you awake at night?",
			},
			"fever": {
				"What is your temperature?",
				"How long have you had the fever?",
				"Are you taking any fever-reducing medications?",
				"Do you have chills or sweats?",
			},
		},
		AgeBands: []entities.AgeBand{
			{Name: "pediatric", MinAge: 0, MaxAge: 17, RiskMultiplier: 1.2},
			{Name: "adult", MinAge: 18, MaxAge: 64, RiskMultiplier: 1.0},
			{Name: "elderly", MinAge: 65, MaxAge: 120, RiskMultiplier: 1.5},
		},
		HighRiskHistory: []string{
			"heart_disease",
			"diabetes",
			"hypertension",
			"copd",
			"cancer",
		},
	})
}

// DefaultClarificationQuestions is the fallback question set for symptoms
// without a table entry.
func DefaultClarificationQuestions() []string {
	return []string{
		"When did this symptom start?",
		"How severe is it on a scale of 1-10?",
		"What makes it better or worse?",
	}
}
