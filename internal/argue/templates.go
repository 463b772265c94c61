package argue

import "github.com/ppiankov/casematch/internal/model"

// Placeholders: {element} {right} {section} {precedent} {argument}

var defenseTemplates = []string{
	"The prosecution has failed to establish {element} beyond reasonable doubt.",
	"The evidence regarding {element} is circumstantial and insufficient.",
	"The witness testimony on {element} is inconsistent and unreliable.",
	"The investigation process was flawed, particularly regarding {element}.",
	"The alleged {element} does not satisfy the legal threshold required.",
	"According to the precedent set in {precedent}, {argument}.",
	"The prosecution's case lacks {element} which is essential to establish guilt.",
	"The constitutional right to {right} has been violated in this case.",
	"The evidence was collected in violation of the procedure established by law.",
	"The prosecution has not proven the mens rea (guilty mind) required for this offense.",
}

var prosecutionTemplates = []string{
	"The evidence clearly establishes {element} beyond reasonable doubt.",
	"The witness testimony consistently confirms {element}.",
	"The documentary evidence proves {element} conclusively.",
	"The investigation was conducted following all procedural requirements.",
	"The accused's conduct satisfies all elements of the offense under section {section}.",
	"The precedent in {precedent} supports the prosecution's case that {argument}.",
	"The forensic evidence confirms {element} linking the accused to the crime.",
	"The accused had both motive and opportunity to commit the offense.",
	"The defense's alternative explanation fails to account for {element}.",
	"The accused's actions demonstrate clear intent (mens rea) required for this offense.",
}

var bailFavorTemplates = []string{
	"The accused has deep roots in the community and is not a flight risk.",
	"The offense is bailable and there is no reason to deny bail.",
	"The accused has no prior criminal record indicating good character.",
	"The case against the accused is prima facie weak.",
	"The accused requires special medical attention that cannot be provided in custody.",
	"The accused is the primary caregiver for dependents.",
	"The accused has consistently appeared for all prior court proceedings.",
	"As established in {precedent}, bail should be granted in such circumstances.",
	"The investigation is complete and there is no risk of evidence tampering.",
	"Extended pre-trial detention would amount to punishment before conviction.",
}

var bailAgainstTemplates = []string{
	"The offense is serious and non-bailable under section {section}.",
	"The accused poses a flight risk due to the severity of punishment.",
	"There is reasonable apprehension of witness tampering or evidence interference.",
	"The accused has a history of non-appearance in court proceedings.",
	"The investigation is ongoing and custody is necessary for proper investigation.",
	"The accused may influence or threaten witnesses if released.",
	"Public sentiment is strong against the offense and may lead to law and order issues.",
	"As established in {precedent}, bail should be denied in such circumstances.",
	"There is prima facie strong evidence against the accused.",
	"The accused has previously violated bail conditions in other cases.",
}

// constitutionalRights fill the {right} placeholder
var constitutionalRights = []string{
	"fair trial", "legal representation", "silence", "protection against self-incrimination",
	"equality before law", "presumption of innocence", "speedy trial", "personal liberty",
	"bail", "due process",
}

// commonElements are used when neither the description nor the section
// suggests anything more specific
var commonElements = []string{
	"intent", "motive", "opportunity", "evidence", "witness testimony",
	"documentary proof", "alibi", "criminal history", "chain of events",
}

// elementCue maps description words to the case element they suggest
type elementCue struct {
	words   []string
	element string
}

var elementCues = []elementCue{
	{[]string{"threat", "intimidate", "fear"}, "threat or intimidation"},
	{[]string{"weapon", "gun", "knife"}, "use of dangerous weapon"},
	{[]string{"plan", "premeditate", "conspire"}, "premeditation"},
	{[]string{"confess", "admit"}, "confession or admission"},
	{[]string{"injury", "harm", "damage"}, "extent of injury or damage"},
}

var sectionElements = map[model.Act]map[string][]string{
	model.ActIPC: {
		"302": {"intention to cause death", "premeditation", "motive for murder"},
		"376": {"consent", "force or coercion", "identification of accused"},
		"420": {"fraudulent intent", "deception", "wrongful gain"},
	},
	model.ActIT: {
		"66": {"unauthorized access", "damage to computer system", "data theft"},
		"67": {"obscene nature of content", "publication intent", "public access"},
	},
	model.ActMV: {
		"184": {"dangerous speed", "reckless behavior", "traffic conditions"},
		"185": {"blood alcohol level", "sobriety test", "driving impairment"},
	},
}
