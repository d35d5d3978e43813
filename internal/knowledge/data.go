package knowledge

// knownDrugs is the gazetteer of recognized generic and common drug names,
// spanning the major therapeutic classes seen in outpatient consultation
// transcripts. Grounded on original_source/src/medicine_database.py's
// KNOWN_DRUGS set.
var knownDrugs = []string{
	// Antibiotics
	"erythromycin", "amoxicillin", "amoxicillin-clavulanic acid", "augmentin",
	"azithromycin", "ciprofloxacin", "levofloxacin", "cephalexin", "doxycycline",
	"metronidazole", "norfloxacin", "cefixime",

	// Analgesics & NSAIDs
	"paracetamol", "acetaminophen", "ibuprofen", "aspirin", "diclofenac",
	"naproxen", "mefenamic acid", "indomethacin",

	// Cough & Cold
	"cough syrup", "dextromethorphan", "promethazine", "codeine", "terbutaline",
	"levosalbutamol", "salbutamol", "albuterol", "bromhexine", "guaifenesin",

	// Antihistamines
	"antihistamine", "cetirizine", "loratadine", "fexofenadine", "meclizine",
	"chlorpheniramine", "pheniramine", "diphenhydramine",

	// Gastrointestinal
	"antacid", "omeprazole", "pantoprazole", "ranitidine", "famotidine",
	"domperidone", "metoclopramide", "ondansetron", "loperamide",

	// Cardiovascular
	"lisinopril", "enalapril", "ramipril", "amlodipine", "nifedipine",
	"metoprolol", "atenolol", "bisoprolol", "atorvastatin", "simvastatin",
	"losartan", "valsartan", "spironolactone", "furosemide", "hydrochlorothiazide",

	// Antihistamine/Decongestant
	"phenylephrine", "pseudoephedrine", "oxymetazoline", "xylometazoline",

	// Vitamins & Minerals
	"vitamin", "vitamin-c", "vitamin-d", "vitamin-b12", "calcium", "iron", "zinc",
	"multivitamin", "ascorbic acid",

	// Antifungal
	"fluconazole", "ketoconazole", "miconazole", "clotrimazole", "terbinafine",

	// Anti-inflammatory
	"corticosteroid", "dexamethasone", "methylprednisolone", "prednisone",
	"hydrocortisone", "betamethasone",

	// Respiratory
	"bronchodilator", "inhaler", "montelukast", "theophylline",

	// Thyroid
	"levothyroxine", "liothyronine",

	// Diabetes
	"metformin", "glipizide", "glyburide", "sitagliptin", "insulin",

	// Antibacterial ointments
	"antibiotic ointment", "neomycin", "bacitracin", "polymyxin",
}

// brandGeneric maps recognized brand/compound names to their generic
// equivalent. Consumed by the Dosage/Term Normalizer's BrandResolver.
var brandGeneric = map[string]string{
	"augmentin": "amoxicillin-clavulanic acid",
	"crocin":    "paracetamol",
	"calpol":    "paracetamol",
	"brufen":    "ibuprofen",
	"voveran":   "diclofenac",
}

// drugPair is an unordered pair of drug names used as a dangerousCombinations key.
type drugPair struct{ a, b string }

// newDrugPair normalizes a pair so lookups are order-independent.
func newDrugPair(a, b string) drugPair {
	if a > b {
		a, b = b, a
	}
	return drugPair{a: a, b: b}
}

// dangerousCombinations maps unordered drug-name pairs to a human-readable
// warning. Grounded on medicine_database.py's DANGEROUS_COMBINATIONS.
var dangerousCombinations = map[drugPair]string{
	newDrugPair("aspirin", "ibuprofen"):        "Both are NSAIDs - avoid together",
	newDrugPair("ibuprofen", "diclofenac"):     "Both are NSAIDs - avoid together",
	newDrugPair("metoprolol", "verapamil"):     "Both lower heart rate - high risk",
	newDrugPair("atorvastatin", "simvastatin"): "Both are statins - avoid together",
	newDrugPair("metformin", "contrast dye"):   "Risk of kidney damage - avoid",
	newDrugPair("lisinopril", "potassium"):     "Risk of hyperkalemia - monitor",
	newDrugPair("warfarin", "aspirin"):         "Increased bleeding risk",
	newDrugPair("fluconazole", "cisapride"):    "Risk of QT prolongation",
}

// KeywordEntry pairs a gazetteer keyword with a canonical output value and
// a priority (lower wins when multiple keywords match the same text).
type KeywordEntry struct {
	Keyword   string `yaml:"keyword"`
	Canonical string `yaml:"canonical"`
	Priority  int    `yaml:"priority"`
}

// complaintKeywords maps complaint-describing phrases to a canonical
// complaint string, ordered most-specific-first by Priority. Grounded on
// medicine_database.py's COMPLAINT_KEYWORDS.
var complaintKeywords = []KeywordEntry{
	{"difficulty breathing", "difficulty breathing", 1},
	{"difficulty swallowing", "difficulty swallowing", 1},
	{"throat pain", "throat pain", 2},
	{"fever", "fever", 2},
	{"cough", "cough", 2},
	{"infection", "infection", 3},
	{"discomfort", "discomfort", 3},
	{"pain", "pain", 3},
}

// diagnosisKeywords maps diagnosis-describing phrases to a canonical
// diagnosis string. Grounded on medicine_database.py's DIAGNOSIS_KEYWORDS.
var diagnosisKeywords = []KeywordEntry{
	{"pharyngitis", "acute pharyngitis", 1},
	{"bacterial throat infection", "bacterial throat infection", 1},
	{"throat infection", "bacterial throat infection", 1},
	{"bacterial infection", "bacterial infection", 2},
	{"infection", "infection", 3},
}

// standardAdvice is the canonical advice catalogue for throat/infection
// presentations. Grounded on medicine_database.py's STANDARD_ADVICE.
var standardAdvice = []string{
	"Take erythromycin after food to avoid stomach discomfort",
	"Complete the full 5 day course of antibiotics",
	"Drink plenty of warm fluids",
	"Do warm salt water gargles 3-4 times a day",
	"Avoid very cold drinks",
	"Avoid spicy food",
	"Avoid oily food",
	"Rest your voice as much as possible",
	"Watch for side effects like nausea, loose stools, or stomach upset",
	"Contact doctor if you develop severe diarrhea, vomiting, skin rash, itching, swelling, or difficulty breathing",
	"Come for review follow up after 5 days or earlier if symptoms do not improve",
	"If fever persists beyond 2-3 days or if you have difficulty swallowing or breathing, seek medical attention",
}

// adviceMapping maps a standardAdvice index to the transcript keywords that
// justify surfacing it — the Post-Processor's evidence-gated advice step
// only includes advice whose keywords actually appear in the transcript.
// Grounded on medicine_database.py's ADVICE_MAPPING.
var adviceMapping = map[int][]string{
	0:  {"food", "stomach", "discomfort", "after food"},
	1:  {"course", "complete"},
	2:  {"drink", "plenty", "warm"},
	3:  {"gargle"},
	4:  {"cold", "drink"},
	5:  {"spicy", "food"},
	6:  {"oily", "food"},
	7:  {"rest", "voice"},
	8:  {"side effect", "nausea"},
	9:  {"severe", "diarrhea"},
	10: {"follow", "review"},
	11: {"fever", "persist"},
}
