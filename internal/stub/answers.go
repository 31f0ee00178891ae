package stub

import (
	"strings"
)

// cannedAnswer is a keyword-matched response. The stub deliberately does no
// retrieval; these exist so the client has realistic content to render.
type cannedAnswer struct {
	keywords []string
	answer   string
	source   string
}

var cannedAnswers = []cannedAnswer{
	{
		keywords: []string{"craniotomy"},
		answer: "A craniotomy is the surgical removal of part of the skull to " +
			"expose the brain. The bone flap is typically replaced at the end of " +
			"the procedure. It is performed for tumor resection, aneurysm " +
			"clipping, and evacuation of hematomas, among other indications.",
		source: "Greenberg, Handbook of Neurosurgery",
	},
	{
		keywords: []string{"glioma", "glioblastoma"},
		answer: "Gliomas are primary brain tumors arising from glial cells. " +
			"Glioblastoma (WHO grade 4) is the most aggressive form; standard of " +
			"care combines maximal safe resection with radiotherapy and " +
			"temozolomide.",
		source: "Stupp et al., NEJM 2005",
	},
	{
		keywords: []string{"aneurysm"},
		answer: "Intracranial aneurysms are focal dilations of cerebral " +
			"arteries, most often at branch points of the circle of Willis. " +
			"Treatment options include microsurgical clipping and endovascular " +
			"coiling; choice depends on morphology, location, and patient factors.",
		source: "ISAT, Lancet 2002",
	},
	{
		keywords: []string{"hydrocephalus", "shunt"},
		answer: "Hydrocephalus is an abnormal accumulation of cerebrospinal " +
			"fluid within the ventricles. Management typically involves CSF " +
			"diversion, most commonly a ventriculoperitoneal shunt or, in " +
			"selected cases, endoscopic third ventriculostomy.",
		source: "Greenberg, Handbook of Neurosurgery",
	},
}

const defaultAnswer = "I can help with questions about neurosurgical " +
	"conditions and procedures. Could you provide more detail about what " +
	"you would like to know?"

// answerFor returns the canned answer and source for a query.
func answerFor(query string) (string, string) {
	lower := strings.ToLower(query)
	for _, c := range cannedAnswers {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.answer, c.source
			}
		}
	}
	return defaultAnswer, ""
}
