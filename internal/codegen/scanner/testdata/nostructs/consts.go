package nostructs

type Mode int

const Default Mode = 0
